package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/mkowalczyk/plant_shop/internal/models"
	"github.com/mkowalczyk/plant_shop/internal/mykafka"
	"github.com/mkowalczyk/plant_shop/internal/repo"
	"github.com/mkowalczyk/plant_shop/internal/service/search"
	"github.com/mkowalczyk/plant_shop/internal/session"
	"github.com/mkowalczyk/plant_shop/internal/util"
)

type ProductHandler struct {
	Repo     *repo.GormRepo
	Sessions *session.Manager
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
	ImageDir string
}

type ProductForm struct {
	Name  string `form:"name"  validate:"required"`
	Type  string `form:"type"  validate:"required"`
	Price string `form:"price" validate:"required"`
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *ProductHandler) Aukcja(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	products, meta, err := h.Repo.Products(c.Request().Context(), page, util.DefaultPageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return render(c, h.Sessions, st, http.StatusOK, "aukcja.html", echo.Map{
		"Products": products,
		"Meta":     meta,
		"PrevPage": meta.Page - 1,
		"NextPage": meta.Page + 1,
	})
}

func (h *ProductHandler) AddProductPage(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return render(c, h.Sessions, st, http.StatusOK, "add_product.html", nil)
}

func (h *ProductHandler) AddProduct(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var form ProductForm
	if err := c.Bind(&form); err != nil {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Please fill in every field.", "/dodaj_produkt")
	}
	if err := c.Validate(&form); err != nil {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Please fill in every field.", "/dodaj_produkt")
	}

	price, err := decimal.NewFromString(form.Price)
	if err != nil {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Price must be a number.", "/dodaj_produkt")
	}

	image, err := saveUpload(c, "image", h.ImageDir)
	if err != nil {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Image upload failed.", "/dodaj_produkt")
	}

	product := models.Product{
		Name:  form.Name,
		Type:  form.Type,
		Price: price.Round(2),
		Image: image,
	}
	if err := h.Repo.CreateProduct(c.Request().Context(), &product); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := search.IndexProduct(c.Request().Context(), h.ES, h.Index, &product); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}

	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})

	return redirectWithFlash(c, h.Sessions, st, "success", "Product has been added!", "/aukcja")
}

// saveUpload stores a multipart file under dir with a sanitized name and
// returns the name for the record.
func saveUpload(c echo.Context, field, dir string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", err
	}

	name := util.SanitizeFilename(fh.Filename)
	if name == "" {
		return "", fmt.Errorf("invalid file name %q", fh.Filename)
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}
