package repo

import (
	"context"

	"github.com/mpozdnyakov/storefront/internal/models"
)

func (r *Repo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *Repo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *Repo) CreateOrderEvent(ctx context.Context, ev *models.OrderEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *Repo) OrderByID(ctx context.Context, id uint) (models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Events").
		First(&order, id).Error
	return order, err
}

func (r *Repo) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Update("status", status).Error
}

// OrderFilter combines listing filters by conjunction. Zero values mean
// "no filter".
type OrderFilter struct {
	UserID uint
	Status models.OrderStatus
}

func (r *Repo) ListOrders(ctx context.Context, f OrderFilter, offset, limit int) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	// created_at plus id keeps pages stable when timestamps collide.
	if err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
