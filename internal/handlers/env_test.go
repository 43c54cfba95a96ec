package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mpozdnyakov/storefront/internal/identity"
	"github.com/mpozdnyakov/storefront/internal/models"
	"github.com/mpozdnyakov/storefront/internal/service"
)

type publishedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	events []publishedEvent
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	m, _ := event.(map[string]any)
	f.events = append(f.events, publishedEvent{Topic: topic, Key: key, Event: m})
	return nil
}

type testEnv struct {
	T   *testing.T
	E   *echo.Echo
	DB  *gorm.DB
	Pub *fakePublisher

	Cart    *CartHandler
	Order   *OrderHandler
	Product *ProductHandler
	Address *AddressHandler
}

func newTestEnv(t *testing.T) *testEnv {
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

	pub := &fakePublisher{}
	env := &testEnv{
		T:   t,
		E:   echo.New(),
		DB:  db,
		Pub: pub,

		Cart:    &CartHandler{Svc: &service.CartService{DB: db}, Producer: pub},
		Order:   &OrderHandler{Svc: &service.OrderService{DB: db}, Producer: pub},
		Product: &ProductHandler{DB: db, Producer: pub},
		Address: &AddressHandler{DB: db},
	}
	return env
}

func (env *testEnv) createUser(role string) models.User {
	u := models.User{Username: "user-" + role, Role: role}
	require.NoError(env.T, env.DB.Create(&u).Error)
	return u
}

func (env *testEnv) createProduct(name string, price int64) models.Product {
	p := models.Product{Name: name, Description: name + " description", Price: price, Count: 10}
	require.NoError(env.T, env.DB.Create(&p).Error)
	return p
}

func (env *testEnv) doJSONRequest(method, path string, body any, ident *identity.Identity) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	if ident != nil {
		identity.Into(c, *ident)
	}
	return rec, c
}

func identityFor(u models.User) *identity.Identity {
	return &identity.Identity{
		ID:                       u.ID,
		Role:                     u.Role,
		DefaultShippingAddressID: u.DefaultShippingAddressID,
	}
}
