package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkowalczyk/plant_shop/internal/session"
)

const (
	ContextSession = "session"
	ContextUserID  = "userID"
)

type Guard struct {
	Sessions *session.Manager
}

// RequireLogin refuses the wrapped handler for anonymous sessions and sends
// the browser to the login page instead. The loaded session state is stashed
// in the echo context so handlers do not resolve the cookie twice.
func (g *Guard) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		st, err := g.Sessions.Load(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		if !st.LoggedIn() {
			st.Flash("warning", "Please log in to continue.")
			if err := g.Sessions.Save(st); err != nil {
				c.Logger().Errorf("session save error: %v", err)
			}
			return c.Redirect(http.StatusFound, "/login")
		}

		c.Set(ContextSession, st)
		c.Set(ContextUserID, st.UserID)
		return next(c)
	}
}
