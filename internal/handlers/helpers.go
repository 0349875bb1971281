package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	authmw "github.com/mkowalczyk/plant_shop/internal/middleware/auth"
	"github.com/mkowalczyk/plant_shop/internal/session"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// sessionState reuses the state loaded by the require-login guard when
// present and resolves the cookie otherwise.
func sessionState(c echo.Context, m *session.Manager) (*session.State, error) {
	if v := c.Get(authmw.ContextSession); v != nil {
		if st, ok := v.(*session.State); ok {
			return st, nil
		}
	}
	return m.Load(c)
}

// render pops pending flashes into the page data and persists the session
// before writing the response.
func render(c echo.Context, m *session.Manager, st *session.State, code int, name string, extra echo.Map) error {
	data := echo.Map{}
	for k, v := range extra {
		data[k] = v
	}
	data["Flashes"] = st.PopFlashes()
	data["LoggedIn"] = st.LoggedIn()
	tok, _ := c.Get("csrf_token").(string)
	data["CSRF"] = tok

	if err := m.Save(st); err != nil {
		c.Logger().Errorf("session save error: %v", err)
	}
	return c.Render(code, name, data)
}

func redirectWithFlash(c echo.Context, m *session.Manager, st *session.State, kind, text, target string) error {
	st.Flash(kind, text)
	if err := m.Save(st); err != nil {
		c.Logger().Errorf("session save error: %v", err)
	}
	return c.Redirect(http.StatusFound, target)
}
