package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mpozdnyakov/storefront/internal/models"
)

func (r *Repo) CartLines(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repo) CartLineByID(ctx context.Context, userID, lineID uint) (models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", lineID, userID).First(&item).Error
	return item, err
}

// IncrementCartLine bumps the quantity of an existing (user, product)
// line in place; reports whether such a line existed.
func (r *Repo) IncrementCartLine(ctx context.Context, userID, productID, quantity uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repo) CreateCartLine(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repo) CartLineByProduct(ctx context.Context, userID, productID uint) (models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	return item, err
}

func (r *Repo) SaveCartLine(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *Repo) DeleteCartLine(ctx context.Context, userID, lineID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", lineID, userID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// DeleteCartLinesByID removes exactly the given line ids. The order
// workflow uses this instead of a blanket per-user delete so a line
// added concurrently with the order transaction survives.
func (r *Repo) DeleteCartLinesByID(ctx context.Context, userID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.CartItem{}).Error
}
