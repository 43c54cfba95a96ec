package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpozdnyakov/storefront/internal/apperr"
	"github.com/mpozdnyakov/storefront/internal/models"
)

func TestAddLineCreatesAndIncrements(t *testing.T) {
	db := initTestDB(t)
	ctx := context.Background()

	user := createUser(t, db, "buyer")
	p := createProduct(t, db, "p", 100)

	svc := &CartService{DB: db}

	item, err := svc.AddLine(ctx, user.ID, p.ID, 2)
	require.NoError(t, err)
	require.Equal(t, uint(2), item.Quantity)

	// adding the same product again bumps the single line
	item, err = svc.AddLine(ctx, user.ID, p.ID, 3)
	require.NoError(t, err)
	require.Equal(t, uint(5), item.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestAddLineValidation(t *testing.T) {
	db := initTestDB(t)
	ctx := context.Background()

	user := createUser(t, db, "buyer")
	p := createProduct(t, db, "p", 100)

	svc := &CartService{DB: db}

	_, err := svc.AddLine(ctx, user.ID, p.ID, 0)
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.AddLine(ctx, user.ID, 999, 1)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.Equal(t, apperr.CodeProductNotFound, apperr.CodeOf(err))
}

func TestSetQuantity(t *testing.T) {
	db := initTestDB(t)
	ctx := context.Background()

	user := createUser(t, db, "buyer")
	stranger := createUser(t, db, "stranger")
	p := createProduct(t, db, "p", 100)

	svc := &CartService{DB: db}
	item, err := svc.AddLine(ctx, user.ID, p.ID, 1)
	require.NoError(t, err)

	updated, err := svc.SetQuantity(ctx, user.ID, item.ID, 7)
	require.NoError(t, err)
	require.Equal(t, uint(7), updated.Quantity)

	_, err = svc.SetQuantity(ctx, user.ID, item.ID, 0)
	require.ErrorIs(t, err, apperr.ErrValidation)

	// another user's line looks like it does not exist
	_, err = svc.SetQuantity(ctx, stranger.ID, item.ID, 2)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.Equal(t, apperr.CodeCartItemNotFound, apperr.CodeOf(err))
}

func TestRemoveLine(t *testing.T) {
	db := initTestDB(t)
	ctx := context.Background()

	user := createUser(t, db, "buyer")
	p := createProduct(t, db, "p", 100)

	svc := &CartService{DB: db}
	item, err := svc.AddLine(ctx, user.ID, p.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveLine(ctx, user.ID, item.ID))

	// removing again fails instead of succeeding silently
	err = svc.RemoveLine(ctx, user.ID, item.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListLinesJoinsProducts(t *testing.T) {
	db := initTestDB(t)
	ctx := context.Background()

	user := createUser(t, db, "buyer")
	p1 := createProduct(t, db, "first", 100)
	p2 := createProduct(t, db, "second", 200)

	svc := &CartService{DB: db}
	_, err := svc.AddLine(ctx, user.ID, p1.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, user.ID, p2.ID, 2)
	require.NoError(t, err)

	lines, err := svc.ListLines(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.NotNil(t, lines[0].Product)
	require.Equal(t, "first", lines[0].Product.Name)
	require.NotNil(t, lines[1].Product)
	require.Equal(t, "second", lines[1].Product.Name)
}
