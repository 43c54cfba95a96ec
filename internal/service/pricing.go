package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mpozdnyakov/storefront/internal/apperr"
	"github.com/mpozdnyakov/storefront/internal/models"
	"github.com/mpozdnyakov/storefront/internal/repo"
)

// PriceLines re-reads the authoritative unit price for every cart line
// and returns frozen order items plus the total in minor units. The
// caller passes a transaction-scoped Repo so the prices and the cart
// snapshot belong to the same unit of work. A product missing from the
// catalog aborts the whole pricing.
func PriceLines(ctx context.Context, r *repo.Repo, lines []models.CartItem) ([]models.OrderItem, int64, error) {
	items := make([]models.OrderItem, 0, len(lines))
	var net int64

	for _, line := range lines {
		p, err := r.ProductByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, apperr.NotFound(apperr.CodeProductNotFound, "product not found")
			}
			return nil, 0, fmt.Errorf("load product %d: %w", line.ProductID, err)
		}

		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: p.Price,
		})
		net += int64(line.Quantity) * p.Price
	}
	return items, net, nil
}
