package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkowalczyk/plant_shop/internal/hash"
	"github.com/mkowalczyk/plant_shop/internal/models"
	"github.com/mkowalczyk/plant_shop/internal/mykafka"
	"github.com/mkowalczyk/plant_shop/internal/repo"
	"github.com/mkowalczyk/plant_shop/internal/session"
)

type AuthHandler struct {
	Repo     *repo.GormRepo
	Sessions *session.Manager
	Producer *mykafka.Producer
}

type RegisterForm struct {
	Email    string `form:"email"    validate:"required,email"`
	Name     string `form:"name"     validate:"required"`
	Password string `form:"password" validate:"required"`
}

type LoginForm struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AuthHandler) RegisterPage(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return render(c, h.Sessions, st, http.StatusOK, "register.html", nil)
}

func (h *AuthHandler) Register(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var form RegisterForm
	if err := c.Bind(&form); err != nil {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Please fill in every field.", "/register")
	}
	if err := c.Validate(&form); err != nil {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Please fill in every field.", "/register")
	}

	pwHash, err := hash.HashPassword(form.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user := models.User{
		Email:        form.Email,
		Name:         form.Name,
		PasswordHash: pwHash,
	}
	if err := h.Repo.CreateUser(c.Request().Context(), &user); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return redirectWithFlash(c, h.Sessions, st, "warning",
				"Your account already exists, please log in.", "/login")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Registration doubles as login.
	st.UserID = user.ID
	if err := h.Sessions.Save(st); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) LoginPage(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return render(c, h.Sessions, st, http.StatusOK, "login.html", nil)
}

func (h *AuthHandler) Login(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var form LoginForm
	if err := c.Bind(&form); err != nil {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Please fill in every field.", "/login")
	}
	if err := c.Validate(&form); err != nil {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Please fill in every field.", "/login")
	}

	user, err := h.Repo.UserByEmail(c.Request().Context(), form.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return redirectWithFlash(c, h.Sessions, st, "danger",
				"That email does not exist, please try again.", "/login")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !hash.CheckPassword(user.PasswordHash, form.Password) {
		return redirectWithFlash(c, h.Sessions, st, "danger",
			"Password is incorrect, please try again.", "/login")
	}

	st.UserID = user.ID
	if err := h.Sessions.Save(st); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.Redirect(http.StatusFound, "/")
}

// Logout drops the bound identity but keeps the session row, so it stays
// idempotent for a browser that hits it twice.
func (h *AuthHandler) Logout(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	st.UserID = 0
	if err := h.Sessions.Save(st); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusFound, "/")
}
