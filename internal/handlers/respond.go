package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mpozdnyakov/storefront/internal/apperr"
	"github.com/mpozdnyakov/storefront/internal/logging"
	"github.com/mpozdnyakov/storefront/internal/mykafka"
)

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps domain error kinds to HTTP statuses. Unknown errors
// become a generic 500 so store internals never leak to clients.
func respondError(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var status int
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	default:
		logging.FromContext(c.Request().Context()).Error("request failed", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Status:  "error",
			Code:    apperr.CodeInternal,
			Message: "internal error",
		})
	}

	msg := err.Error()
	var ae *apperr.Error
	if errors.As(err, &ae) {
		msg = ae.Msg
	}
	return c.JSON(status, ErrorResponse{Status: "error", Code: apperr.CodeOf(err), Message: msg})
}

func publish(c echo.Context, p mykafka.Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "topic", topic, "error", err)
	}
}
