package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mpozdnyakov/storefront/internal/models"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.Address{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderEvent{},
	))
	return db
}

func createProduct(t *testing.T, db *gorm.DB, name string, price int64) models.Product {
	t.Helper()
	p := models.Product{Name: name, Description: name + " description", Price: price, Count: 100}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{Username: username, Role: "user"}
	require.NoError(t, db.Create(&u).Error)
	return u
}
