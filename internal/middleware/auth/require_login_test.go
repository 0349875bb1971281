package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mkowalczyk/plant_shop/internal/models"
	"github.com/mkowalczyk/plant_shop/internal/session"
)

func initTestManager(t *testing.T) *session.Manager {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return &session.Manager{DB: db, Secret: []byte("test_secret")}
}

func TestRequireLoginRedirectsAnonymous(t *testing.T) {
	m := initTestManager(t)
	g := &Guard{Sessions: m}
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	next := func(c echo.Context) error { called = true; return nil }

	require.NoError(t, g.RequireLogin(next)(c))
	require.False(t, called)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireLoginPassesAuthenticated(t *testing.T) {
	m := initTestManager(t)
	g := &Guard{Sessions: m}
	e := echo.New()

	setup := httptest.NewRecorder()
	cSetup := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), setup)
	st, err := m.Load(cSetup)
	require.NoError(t, err)
	st.UserID = 7
	require.NoError(t, m.Save(st))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	for _, ck := range setup.Result().Cookies() {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	next := func(c echo.Context) error { called = true; return nil }

	require.NoError(t, g.RequireLogin(next)(c))
	require.True(t, called)
	require.Equal(t, uint(7), c.Get(ContextUserID))

	got, ok := c.Get(ContextSession).(*session.State)
	require.True(t, ok)
	require.Equal(t, st.ID, got.ID)
}
