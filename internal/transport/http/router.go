package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mkowalczyk/plant_shop/internal/handlers"
	"github.com/mkowalczyk/plant_shop/internal/middleware/auth"
	"github.com/mkowalczyk/plant_shop/internal/session"
)

type Deps struct {
	DB             *gorm.DB
	Sessions       *session.Manager
	PageHandler    *handlers.PageHandler
	AuthHandler    *handlers.AuthHandler
	CartHandler    *handlers.CartHandler
	ProductHandler *handlers.ProductHandler
	PostHandler    *handlers.PostHandler
	SearchHandler  *handlers.SearchHandler
	StaticDir      string
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = handlers.NewValidator()

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Static("/static", d.StaticDir)

	e.GET("/", d.PageHandler.Home)
	e.GET("/sklep", d.PageHandler.Sklep)
	e.GET("/contact", d.PageHandler.Contact)

	e.GET("/register", d.AuthHandler.RegisterPage)
	e.POST("/register", d.AuthHandler.Register)
	e.GET("/login", d.AuthHandler.LoginPage)
	e.POST("/login", d.AuthHandler.Login)
	e.GET("/logout", d.AuthHandler.Logout)

	e.GET("/aukcja", d.ProductHandler.Aukcja)
	e.GET("/search", d.SearchHandler.Search)

	e.GET("/forum", d.PostHandler.Forum)
	e.GET("/post/:id", d.PostHandler.ShowPost)
	e.POST("/post/:id", d.PostHandler.AddComment)
	// Kept as observed in the previous version of the app: post deletion has
	// no login or ownership check.
	e.GET("/delete/:id", d.PostHandler.DeletePost)

	guard := &auth.Guard{Sessions: d.Sessions}
	protected := e.Group("", guard.RequireLogin)

	protected.GET("/add_to_cart/:id", d.CartHandler.AddToCart)
	protected.GET("/cart", d.CartHandler.ViewCart)
	protected.POST("/cart", d.CartHandler.Checkout)
	protected.POST("/update_cart/:id", d.CartHandler.UpdateCart)

	protected.GET("/dodaj_produkt", d.ProductHandler.AddProductPage)
	protected.POST("/dodaj_produkt", d.ProductHandler.AddProduct)
	protected.GET("/dodaj_post", d.PostHandler.MakePostPage)
	protected.POST("/dodaj_post", d.PostHandler.MakePost)
	protected.GET("/profil", d.PostHandler.Profil)
}
