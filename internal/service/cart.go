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

type CartService struct {
	DB *gorm.DB
}

// CartLine is a cart item joined with current product data, for display
// only. Order creation never prices from this join.
type CartLine struct {
	models.CartItem
	Product *models.Product `json:"product,omitempty"`
}

// AddLine creates a (user, product) line or increments an existing one.
func (s *CartService) AddLine(ctx context.Context, userID, productID, quantity uint) (models.CartItem, error) {
	var item models.CartItem
	if quantity == 0 {
		return item, apperr.Validation("quantity must be greater than zero")
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		r := repo.New(tx)

		if _, err := r.ProductByID(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(apperr.CodeProductNotFound, "product not found")
			}
			return fmt.Errorf("load product: %w", err)
		}

		bumped, err := r.IncrementCartLine(ctx, userID, productID, quantity)
		if err != nil {
			return fmt.Errorf("increment cart line: %w", err)
		}
		if !bumped {
			item = models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
			if err := r.CreateCartLine(ctx, &item); err != nil {
				return fmt.Errorf("create cart line: %w", err)
			}
			return nil
		}

		item, err = r.CartLineByProduct(ctx, userID, productID)
		if err != nil {
			return fmt.Errorf("reload cart line: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

// SetQuantity replaces the quantity of a line owned by the caller.
func (s *CartService) SetQuantity(ctx context.Context, userID, lineID, quantity uint) (models.CartItem, error) {
	if quantity == 0 {
		return models.CartItem{}, apperr.Validation("quantity must be greater than zero")
	}

	r := repo.New(s.DB)
	item, err := r.CartLineByID(ctx, userID, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CartItem{}, apperr.NotFound(apperr.CodeCartItemNotFound, "cart item not found")
		}
		return models.CartItem{}, fmt.Errorf("load cart line: %w", err)
	}

	item.Quantity = quantity
	if err := r.SaveCartLine(ctx, &item); err != nil {
		return models.CartItem{}, fmt.Errorf("save cart line: %w", err)
	}
	return item, nil
}

// RemoveLine deletes a line owned by the caller; removing a missing
// line is an error, not a silent success.
func (s *CartService) RemoveLine(ctx context.Context, userID, lineID uint) error {
	rows, err := repo.New(s.DB).DeleteCartLine(ctx, userID, lineID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if rows == 0 {
		return apperr.NotFound(apperr.CodeCartItemNotFound, "cart item not found")
	}
	return nil
}

func (s *CartService) ListLines(ctx context.Context, userID uint) ([]CartLine, error) {
	r := repo.New(s.DB)
	items, err := r.CartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}

	out := make([]CartLine, 0, len(items))
	for _, it := range items {
		line := CartLine{CartItem: it}
		if p, err := r.ProductByID(ctx, it.ProductID); err == nil {
			line.Product = &p
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load product %d: %w", it.ProductID, err)
		}
		out = append(out, line)
	}
	return out, nil
}
