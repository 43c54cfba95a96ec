package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mpozdnyakov/storefront/internal/apperr"
	"github.com/mpozdnyakov/storefront/internal/identity"
	"github.com/mpozdnyakov/storefront/internal/models"
	"github.com/mpozdnyakov/storefront/internal/repo"
)

type AddressHandler struct {
	DB *gorm.DB
}

func (h *AddressHandler) AddAddress(c echo.Context) error {
	ident, err := identity.FromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	var req struct {
		LineOne string `json:"line_one"`
		LineTwo string `json:"line_two"`
		City    string `json:"city"`
		Country string `json:"country"`
		Pincode string `json:"pincode"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.LineOne == "" || req.City == "" || req.Country == "" || req.Pincode == "" {
		return respondError(c, apperr.Validation("line_one, city, country and pincode are required"))
	}

	addr := models.Address{
		UserID:  ident.ID,
		LineOne: req.LineOne,
		LineTwo: req.LineTwo,
		City:    req.City,
		Country: req.Country,
		Pincode: req.Pincode,
	}
	if err := repo.New(h.DB).CreateAddress(c.Request().Context(), &addr); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, addr)
}

func (h *AddressHandler) ListAddresses(c echo.Context) error {
	ident, err := identity.FromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	addrs, err := repo.New(h.DB).ListAddresses(c.Request().Context(), ident.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, addrs)
}

func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	ident, err := identity.FromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	rows, err := repo.New(h.DB).DeleteAddress(c.Request().Context(), ident.ID, uint(id))
	if err != nil {
		return respondError(c, err)
	}
	if rows == 0 {
		return respondError(c, apperr.NotFound(apperr.CodeAddressNotFound, "address not found"))
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// UpdateDefaults sets the caller's default shipping/billing addresses.
// Either field may be omitted to leave it unchanged.
func (h *AddressHandler) UpdateDefaults(c echo.Context) error {
	ident, err := identity.FromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	var req struct {
		DefaultShippingAddressID *uint `json:"default_shipping_address_id"`
		DefaultBillingAddressID  *uint `json:"default_billing_address_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ctx := c.Request().Context()
	r := repo.New(h.DB)

	for _, id := range []*uint{req.DefaultShippingAddressID, req.DefaultBillingAddressID} {
		if id == nil {
			continue
		}
		addr, err := r.AddressByID(ctx, *id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return respondError(c, apperr.NotFound(apperr.CodeAddressNotFound, "address not found"))
			}
			return respondError(c, err)
		}
		if addr.UserID != ident.ID {
			return respondError(c, apperr.New(apperr.ErrValidation, apperr.CodeAddressDoesNotBelong, "address does not belong to user"))
		}
	}

	user, err := r.UserByID(ctx, ident.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, apperr.NotFound(apperr.CodeUserNotFound, "user not found"))
		}
		return respondError(c, err)
	}

	if req.DefaultShippingAddressID != nil {
		user.DefaultShippingAddressID = req.DefaultShippingAddressID
	}
	if req.DefaultBillingAddressID != nil {
		user.DefaultBillingAddressID = req.DefaultBillingAddressID
	}
	if err := r.SaveUser(ctx, &user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
