package repo

import (
	"context"

	"github.com/mpozdnyakov/storefront/internal/models"
)

func (r *Repo) AddressByID(ctx context.Context, id uint) (models.Address, error) {
	var a models.Address
	err := r.db.WithContext(ctx).First(&a, id).Error
	return a, err
}

func (r *Repo) CreateAddress(ctx context.Context, a *models.Address) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *Repo) ListAddresses(ctx context.Context, userID uint) ([]models.Address, error) {
	var out []models.Address
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) DeleteAddress(ctx context.Context, userID, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	return res.RowsAffected, res.Error
}

func (r *Repo) UserByID(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	return u, err
}

func (r *Repo) SaveUser(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}
