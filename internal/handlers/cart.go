package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mpozdnyakov/storefront/internal/identity"
	"github.com/mpozdnyakov/storefront/internal/mykafka"
	"github.com/mpozdnyakov/storefront/internal/service"
)

type CartHandler struct {
	Svc      *service.CartService
	Producer mykafka.Publisher
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ident, err := identity.FromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	lines, err := h.Svc.ListLines(c.Request().Context(), ident.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ident, err := identity.FromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.AddLine(c.Request().Context(), ident.ID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(ident.ID), map[string]any{
		"type":      "cart_line_added",
		"userID":    ident.ID,
		"productID": item.ProductID,
		"quantity":  item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	ident, err := identity.FromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.SetQuantity(c.Request().Context(), ident.ID, uint(id), req.Quantity)
	if err != nil {
		return respondError(c, err)
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(ident.ID), map[string]any{
		"type":     "cart_line_updated",
		"userID":   ident.ID,
		"id":       item.ID,
		"quantity": item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) DeleteCartItem(c echo.Context) error {
	ident, err := identity.FromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.RemoveLine(c.Request().Context(), ident.ID, uint(id)); err != nil {
		return respondError(c, err)
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(ident.ID), map[string]any{
		"type":         "cart_line_deleted",
		"userID":       ident.ID,
		"deleted_item": id,
	})
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
