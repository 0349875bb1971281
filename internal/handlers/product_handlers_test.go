package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/mkowalczyk/plant_shop/internal/models"
)

func (env *testEnv) doMultipart(target string, fields map[string]string, fileField, fileName string, ck *http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(env.T, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile(fileField, fileName)
	require.NoError(env.T, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(env.T, err)
	require.NoError(env.T, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	if ck != nil {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

func TestAukcjaRendersProducts(t *testing.T) {
	env := newTestEnv(t)
	ck := env.register("a@x.com", "A", "password")
	env.createProduct("monstera", "19.99")

	rec, c := env.doGet("/aukcja", ck)
	require.NoError(t, env.Product.Aukcja(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "monstera")
}

func TestAddProduct(t *testing.T) {
	env := newTestEnv(t)
	ck := env.register("a@x.com", "A", "password")

	fields := map[string]string{
		"name":  "monstera",
		"type":  "tropical",
		"price": "19.99",
	}
	rec, c := env.doMultipart("/dodaj_produkt", fields, "image", "my plant.jpg", ck)
	require.NoError(t, env.Product.AddProduct(c))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/aukcja", rec.Header().Get("Location"))

	var product models.Product
	require.NoError(t, env.DB.Where("name = ?", "monstera").First(&product).Error)
	require.Equal(t, "tropical", product.Type)
	require.Equal(t, "19.99", product.Price.StringFixed(2))
	require.Equal(t, "my_plant.jpg", product.Image)

	saved, err := os.ReadFile(filepath.Join(env.Product.ImageDir, "my_plant.jpg"))
	require.NoError(t, err)
	require.Equal(t, "fake image bytes", string(saved))
}

func TestAddProductBadPrice(t *testing.T) {
	env := newTestEnv(t)
	ck := env.register("a@x.com", "A", "password")

	fields := map[string]string{
		"name":  "monstera",
		"type":  "tropical",
		"price": "not-a-number",
	}
	rec, c := env.doMultipart("/dodaj_produkt", fields, "image", "plant.jpg", ck)
	require.NoError(t, env.Product.AddProduct(c))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/dodaj_produkt", rec.Header().Get("Location"))

	var count int64
	require.NoError(t, env.DB.Model(&models.Product{}).Count(&count).Error)
	require.Zero(t, count)
}
