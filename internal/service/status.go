package service

import (
	"fmt"

	"github.com/mpozdnyakov/storefront/internal/apperr"
	"github.com/mpozdnyakov/storefront/internal/models"
)

// transitions is the order lifecycle. CANCELLED and DELIVERED are
// terminal.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusCancelled:  {},
	models.OrderStatusDelivered:  {},
}

// ParseStatus validates a caller-supplied status value.
func ParseStatus(s string) (models.OrderStatus, error) {
	status := models.OrderStatus(s)
	if _, ok := transitions[status]; !ok {
		return "", apperr.Validation(fmt.Sprintf("unknown order status %q", s))
	}
	return status, nil
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
