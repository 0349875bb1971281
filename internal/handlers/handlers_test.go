package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mkowalczyk/plant_shop/internal/cart"
	"github.com/mkowalczyk/plant_shop/internal/config"
	"github.com/mkowalczyk/plant_shop/internal/models"
	"github.com/mkowalczyk/plant_shop/internal/mykafka"
	"github.com/mkowalczyk/plant_shop/internal/repo"
	"github.com/mkowalczyk/plant_shop/internal/session"
	"github.com/mkowalczyk/plant_shop/internal/view"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Sessions *session.Manager
	Auth     *AuthHandler
	Cart     *CartHandler
	Product  *ProductHandler
	Post     *PostHandler
}

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := InitTestDB(t)

	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Validator = NewValidator()
	e.Renderer = renderer

	sessions := &session.Manager{DB: db, Secret: []byte("test_secret")}
	store := &repo.GormRepo{DB: db}
	producer := &mykafka.Producer{}

	return &testEnv{
		T:        t,
		E:        e,
		DB:       db,
		Sessions: sessions,
		Auth:     &AuthHandler{Repo: store, Sessions: sessions, Producer: producer},
		Cart:     &CartHandler{Repo: store, Sessions: sessions, Producer: producer},
		Product:  &ProductHandler{Repo: store, Sessions: sessions, Producer: producer, Index: "product", ImageDir: t.TempDir()},
		Post:     &PostHandler{Repo: store, Sessions: sessions, Producer: producer, ImageDir: t.TempDir()},
	}
}

func (env *testEnv) doForm(method, target string, form url.Values, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

func (env *testEnv) doJSON(method, target string, payload interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	body, err := json.Marshal(payload)
	require.NoError(env.T, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

func (env *testEnv) doGet(target string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	t.Fatal("expected session cookie to be set")
	return nil
}

// register runs the registration handler and returns the session cookie of
// the now logged-in session.
func (env *testEnv) register(email, name, password string) *http.Cookie {
	form := url.Values{}
	form.Set("email", email)
	form.Set("name", name)
	form.Set("password", password)

	rec, c := env.doForm(http.MethodPost, "/register", form)
	require.NoError(env.T, env.Auth.Register(c))
	require.Equal(env.T, http.StatusFound, rec.Code)

	return sessionCookie(env.T, rec)
}

func (env *testEnv) sessionFor(ck *http.Cookie) models.Session {
	sid, err := session.ParseSessionToken(ck.Value, env.Sessions.Secret)
	require.NoError(env.T, err)

	var rec models.Session
	require.NoError(env.T, env.DB.Where("id = ?", sid).First(&rec).Error)
	return rec
}

func (env *testEnv) cartEntries(ck *http.Cookie) []cart.Entry {
	rec := env.sessionFor(ck)
	var entries []cart.Entry
	require.NoError(env.T, json.Unmarshal(rec.Cart, &entries))
	return entries
}

func (env *testEnv) flashes(ck *http.Cookie) []session.Flash {
	rec := env.sessionFor(ck)
	var flashes []session.Flash
	require.NoError(env.T, json.Unmarshal(rec.Flashes, &flashes))
	return flashes
}
