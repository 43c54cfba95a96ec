// Package identity resolves the authenticated caller for every request.
// Token issuance and refresh live in the auth service; this side only
// parses the access token and loads the user row behind it.
package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mpozdnyakov/storefront/internal/models"
)

const contextKey = "identity"

type Identity struct {
	ID                       uint
	Role                     string
	DefaultShippingAddressID *uint
	DefaultBillingAddressID  *uint
}

func (i Identity) IsAdmin() bool { return i.Role == "admin" }

// Middleware authenticates the request and stores the resolved Identity
// in the echo context.
func Middleware(db *gorm.DB, jwtSecret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := rawToken(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return jwtSecret, nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			subRaw, ok := claims["sub"].(float64)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
			}

			var user models.User
			if err := db.WithContext(c.Request().Context()).First(&user, uint(subRaw)).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}

			c.Set(contextKey, Identity{
				ID:                       user.ID,
				Role:                     user.Role,
				DefaultShippingAddressID: user.DefaultShippingAddressID,
				DefaultBillingAddressID:  user.DefaultBillingAddressID,
			})
			return next(c)
		}
	}
}

// AdminOnly gates admin endpoints; must run after Middleware.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, err := FromContext(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
		}
		if !ident.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		return next(c)
	}
}

func FromContext(c echo.Context) (Identity, error) {
	v := c.Get(contextKey)
	ident, ok := v.(Identity)
	if !ok {
		return Identity{}, errors.New("no identity in context")
	}
	return ident, nil
}

// Into is used by tests to place an identity directly into a context.
func Into(c echo.Context, ident Identity) {
	c.Set(contextKey, ident)
}

func rawToken(c echo.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
