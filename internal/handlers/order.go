package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mpozdnyakov/storefront/internal/apperr"
	"github.com/mpozdnyakov/storefront/internal/identity"
	"github.com/mpozdnyakov/storefront/internal/mykafka"
	"github.com/mpozdnyakov/storefront/internal/service"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Producer mykafka.Publisher
}

// PlaceOrder converts the caller's cart into an order. An empty cart is
// a normal outcome, not an error.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	ident, err := identity.FromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	result, err := h.Svc.PlaceOrder(c.Request().Context(), ident.ID, ident.DefaultShippingAddressID)
	if err != nil {
		return respondError(c, err)
	}
	if result.EmptyCart {
		return c.JSON(http.StatusOK, map[string]string{"message": "Cart is empty"})
	}

	order := result.Order
	publish(c, h.Producer, "order_events", order.Number, map[string]any{
		"type":       "order_created",
		"userID":     ident.ID,
		"orderID":    order.ID,
		"number":     order.Number,
		"net_amount": order.NetAmount,
	})
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	ident, err := identity.FromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	page, err := h.Svc.ListOrders(c.Request().Context(), service.ListOrdersQuery{
		UserID:   ident.ID,
		Status:   c.QueryParam("status"),
		Page:     parseIntDefault(c.QueryParam("page"), 1),
		PageSize: parseIntDefault(c.QueryParam("pageSize"), 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ident, err := identity.FromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	order, err := h.Svc.GetOrder(c.Request().Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	if !ident.IsAdmin() && order.UserID != ident.ID {
		// Do not reveal other users' order ids.
		return c.JSON(http.StatusNotFound, ErrorResponse{Status: "error", Code: apperr.CodeOrderNotFound, Message: "order not found"})
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	ident, err := identity.FromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	order, err := h.Svc.CancelOrder(c.Request().Context(), ident.ID, ident.IsAdmin(), uint(id))
	if err != nil {
		return respondError(c, err)
	}

	publish(c, h.Producer, "order_events", order.Number, map[string]any{
		"type":    "order_cancelled",
		"orderID": order.ID,
		"status":  order.Status,
	})
	return c.JSON(http.StatusOK, order)
}

// ChangeStatus is the admin transition endpoint.
func (h *OrderHandler) ChangeStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.ChangeStatus(c.Request().Context(), uint(id), req.Status)
	if err != nil {
		return respondError(c, err)
	}

	publish(c, h.Producer, "order_events", order.Number, map[string]any{
		"type":    "order_status_changed",
		"orderID": order.ID,
		"status":  order.Status,
	})
	return c.JSON(http.StatusOK, order)
}

// ListAllOrders is the admin listing across users.
func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	page, err := h.Svc.ListOrders(c.Request().Context(), service.ListOrdersQuery{
		Status:   c.QueryParam("status"),
		Page:     parseIntDefault(c.QueryParam("page"), 1),
		PageSize: parseIntDefault(c.QueryParam("pageSize"), 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// ListUserOrders is the admin listing for one user.
func (h *OrderHandler) ListUserOrders(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil || userID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	page, err := h.Svc.ListOrders(c.Request().Context(), service.ListOrdersQuery{
		UserID:   uint(userID),
		Status:   c.QueryParam("status"),
		Page:     parseIntDefault(c.QueryParam("page"), 1),
		PageSize: parseIntDefault(c.QueryParam("pageSize"), 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
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
