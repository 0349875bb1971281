package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkowalczyk/plant_shop/internal/cart"
	"github.com/mkowalczyk/plant_shop/internal/mykafka"
	"github.com/mkowalczyk/plant_shop/internal/repo"
	"github.com/mkowalczyk/plant_shop/internal/session"
)

type CartHandler struct {
	Repo     *repo.GormRepo
	Sessions *session.Manager
	Producer *mykafka.Producer
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Product not found.", "/aukcja")
	}

	product, err := h.Repo.ProductByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return redirectWithFlash(c, h.Sessions, st, "danger", "Product not found.", "/aukcja")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	st.Entries = cart.Add(st.Entries, *product)

	h.publish(c, map[string]any{
		"type":      "cart_item_added",
		"userID":    st.UserID,
		"productID": product.ID,
	})

	return redirectWithFlash(c, h.Sessions, st, "success", "Product added to cart!", "/cart")
}

func (h *CartHandler) ViewCart(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return render(c, h.Sessions, st, http.StatusOK, "cart.html", echo.Map{
		"Entries": st.Entries,
		"Total":   cart.Total(st.Entries).StringFixed(2),
	})
}

// Checkout is a stub by design: no payment, no stock check, no order row.
// It always succeeds and leaves the cart empty.
func (h *CartHandler) Checkout(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	st.Entries = nil

	h.publish(c, map[string]any{
		"type":   "cart_checked_out",
		"userID": st.UserID,
	})

	return redirectWithFlash(c, h.Sessions, st, "success", "Payment processed successfully!", "/")
}

func (h *CartHandler) UpdateCart(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false})
	}

	// Quantity is taken as sent, zero and negative included; an id that is
	// not in the cart changes nothing.
	st.Entries = cart.SetQuantity(st.Entries, uint(id), req.Quantity)
	if err := h.Sessions.Save(st); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "cart_quantity_set",
		"userID":    st.UserID,
		"productID": id,
		"quantity":  req.Quantity,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
