package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mkowalczyk/plant_shop/internal/config"
	"github.com/mkowalczyk/plant_shop/internal/es"
	"github.com/mkowalczyk/plant_shop/internal/handlers"
	"github.com/mkowalczyk/plant_shop/internal/logging"
	"github.com/mkowalczyk/plant_shop/internal/middleware/csrf"
	loggingmw "github.com/mkowalczyk/plant_shop/internal/middleware/logging"
	"github.com/mkowalczyk/plant_shop/internal/mykafka"
	"github.com/mkowalczyk/plant_shop/internal/repo"
	"github.com/mkowalczyk/plant_shop/internal/session"
	httpserver "github.com/mkowalczyk/plant_shop/internal/transport/http"
	"github.com/mkowalczyk/plant_shop/internal/view"
)

func main() {
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	prod, err := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		logger.Warn("elasticsearch unavailable, search disabled", "error", err)
		esClient = nil
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal(err)
	}

	e := echo.New()
	e.Renderer = renderer
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(csrf.Middleware(csrf.Config{Secure: true}))

	sessions := &session.Manager{DB: db, Secret: []byte(configuration.SESSION_SECRET)}
	store := &repo.GormRepo{DB: db}

	deps := httpserver.Deps{
		DB:          db,
		Sessions:    sessions,
		PageHandler: &handlers.PageHandler{Sessions: sessions},
		AuthHandler: &handlers.AuthHandler{Repo: store, Sessions: sessions, Producer: prod},
		CartHandler: &handlers.CartHandler{Repo: store, Sessions: sessions, Producer: prod},
		ProductHandler: &handlers.ProductHandler{
			Repo:     store,
			Sessions: sessions,
			Producer: prod,
			ES:       esClient,
			Index:    "product",
			ImageDir: configuration.IMAGE_DIR,
		},
		PostHandler:   &handlers.PostHandler{Repo: store, Sessions: sessions, Producer: prod, ImageDir: configuration.IMAGE_DIR},
		SearchHandler: &handlers.SearchHandler{ES: esClient, Index: "product"},
		StaticDir:     configuration.STATIC_DIR,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
