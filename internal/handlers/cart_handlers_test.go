package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpozdnyakov/storefront/internal/models"
	"github.com/mpozdnyakov/storefront/internal/service"
)

func TestAddToCartHandler(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("user")
	p := env.createProduct("p", 100)

	load := map[string]uint{"product_id": p.ID, "quantity": 2}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load, identityFor(user))
	require.NoError(t, env.Cart.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, user.ID, resp.UserID)
	require.Equal(t, p.ID, resp.ProductID)
	require.Equal(t, uint(2), resp.Quantity)

	require.Len(t, env.Pub.events, 1)
	require.Equal(t, "cart_events", env.Pub.events[0].Topic)
	require.Equal(t, "cart_line_added", env.Pub.events[0].Event["type"])
}

func TestAddToCartHandlerUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("user")

	load := map[string]uint{"product_id": 999, "quantity": 1}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load, identityFor(user))
	require.NoError(t, env.Cart.AddToCart(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, "PRODUCT_NOT_FOUND", errResp.Code)
	require.Empty(t, env.Pub.events)
}

func TestGetCartHandler(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("user")
	p := env.createProduct("p", 100)
	require.NoError(t, env.DB.Create(&models.CartItem{UserID: user.ID, ProductID: p.ID, Quantity: 3}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, identityFor(user))
	require.NoError(t, env.Cart.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []service.CartLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, uint(3), resp[0].Quantity)
	require.NotNil(t, resp[0].Product)
	require.Equal(t, "p", resp[0].Product.Name)
}

func TestUpdateCartItemHandler(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("user")
	p := env.createProduct("p", 100)

	item := models.CartItem{UserID: user.ID, ProductID: p.ID, Quantity: 1}
	require.NoError(t, env.DB.Create(&item).Error)

	rec, c := env.doJSONRequest(http.MethodPut, "/api/v1/cart/1", map[string]uint{"quantity": 5}, identityFor(user))
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Cart.UpdateCartItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uint(5), resp.Quantity)
}

func TestDeleteCartItemHandler(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("user")
	p := env.createProduct("p", 100)

	item := models.CartItem{UserID: user.ID, ProductID: p.ID, Quantity: 1}
	require.NoError(t, env.DB.Create(&item).Error)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/cart/1", nil, identityFor(user))
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Cart.DeleteCartItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// deleting again reports the missing line
	rec, c = env.doJSONRequest(http.MethodDelete, "/api/v1/cart/1", nil, identityFor(user))
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Cart.DeleteCartItem(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, "CART_ITEM_NOT_FOUND", errResp.Code)
}
