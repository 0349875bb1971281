package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkowalczyk/plant_shop/internal/session"
)

// PageHandler serves the static pages. They still load the session so flash
// messages from redirects (checkout, login) show up.
type PageHandler struct {
	Sessions *session.Manager
}

func (h *PageHandler) Home(c echo.Context) error {
	return h.page(c, "home.html")
}

func (h *PageHandler) Sklep(c echo.Context) error {
	return h.page(c, "sklep.html")
}

func (h *PageHandler) Contact(c echo.Context) error {
	return h.page(c, "contact.html")
}

func (h *PageHandler) page(c echo.Context, name string) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return render(c, h.Sessions, st, http.StatusOK, name, nil)
}
