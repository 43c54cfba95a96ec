package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mpozdnyakov/storefront/internal/models"
)

var testSecret = []byte("test-secret")

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func signToken(t *testing.T, userID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(15 * time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func runMiddleware(t *testing.T, db *gorm.DB, req *http.Request) (*httptest.ResponseRecorder, Identity, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got Identity
	handler := Middleware(db, testSecret)(func(c echo.Context) error {
		ident, err := FromContext(c)
		require.NoError(t, err)
		got = ident
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec, got, err
}

func TestMiddlewareResolvesUser(t *testing.T) {
	db := initTestDB(t)

	shipping := uint(7)
	user := models.User{Username: "buyer", Role: "user", DefaultShippingAddressID: &shipping}
	require.NoError(t, db.Create(&user).Error)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: signToken(t, user.ID)})

	_, got, err := runMiddleware(t, db, req)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, "user", got.Role)
	require.NotNil(t, got.DefaultShippingAddressID)
	require.Equal(t, shipping, *got.DefaultShippingAddressID)
}

func TestMiddlewareBearerHeader(t *testing.T) {
	db := initTestDB(t)
	user := models.User{Username: "buyer", Role: "user"}
	require.NoError(t, db.Create(&user).Error)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, user.ID))

	_, got, err := runMiddleware(t, db, req)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	db := initTestDB(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, _, err := runMiddleware(t, db, req)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestMiddlewareRejectsUnknownUser(t *testing.T) {
	db := initTestDB(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: signToken(t, 42)})

	_, _, err := runMiddleware(t, db, req)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestMiddlewareRejectsBadSignature(t *testing.T) {
	db := initTestDB(t)
	user := models.User{Username: "buyer", Role: "user"}
	require.NoError(t, db.Create(&user).Error)

	claims := jwt.MapClaims{"sub": user.ID, "exp": time.Now().Add(time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})

	_, _, err = runMiddleware(t, db, req)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAdminOnly(t *testing.T) {
	e := echo.New()

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	Into(c, Identity{ID: 1, Role: "admin"})
	require.NoError(t, AdminOnly(next)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	Into(c, Identity{ID: 2, Role: "user"})
	err := AdminOnly(next)(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusForbidden, he.Code)
}
