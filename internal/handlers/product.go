package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mpozdnyakov/storefront/internal/apperr"
	"github.com/mpozdnyakov/storefront/internal/cache"
	"github.com/mpozdnyakov/storefront/internal/logging"
	"github.com/mpozdnyakov/storefront/internal/models"
	"github.com/mpozdnyakov/storefront/internal/mykafka"
	"github.com/mpozdnyakov/storefront/internal/repo"
	"github.com/mpozdnyakov/storefront/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Cache    cache.ProductCache
	Producer mykafka.Publisher
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"` // decimal string, e.g. "12.99"
	Tags        string `json:"tags"`
	Count       uint   `json:"count"`
}

// parsePrice converts a decimal price string to minor units exactly.
func parsePrice(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, apperr.Validation(fmt.Sprintf("invalid price %q", s))
	}
	if d.IsNegative() {
		return 0, apperr.Validation("price must not be negative")
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, apperr.Validation("price must have at most two decimal places")
	}
	return cents.IntPart(), nil
}

// GetProduct serves display reads through the cache; order pricing
// never comes through here.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()

	if h.Cache != nil {
		if p, err := h.Cache.Get(ctx, uint(id)); err == nil {
			return c.JSON(http.StatusOK, p)
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			logging.FromContext(ctx).Warn("product cache read failed", "error", err)
		}
	}

	p, err := repo.New(h.DB).ProductByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, apperr.NotFound(apperr.CodeProductNotFound, "product not found"))
		}
		return respondError(c, err)
	}

	if h.Cache != nil {
		if err := h.Cache.Set(ctx, &p); err != nil {
			logging.FromContext(ctx).Warn("product cache write failed", "error", err)
		}
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("pageSize"), 0)

	page, size = util.Clamp(page, size)
	offset, limit := util.Calculate(page, size)

	items, total, err := repo.New(h.DB).ListProducts(c.Request().Context(), offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items":      items,
		"page":       page,
		"pageSize":   limit,
		"totalItems": total,
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return respondError(c, err)
	}

	prod := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Tags:        req.Tags,
		Count:       req.Count,
	}
	if err := repo.New(h.DB).CreateProduct(c.Request().Context(), &prod); err != nil {
		return respondError(c, err)
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	r := repo.New(h.DB)

	prod, err := r.ProductByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, apperr.NotFound(apperr.CodeProductNotFound, "product not found"))
		}
		return respondError(c, err)
	}

	prod.Name = req.Name
	prod.Description = req.Description
	prod.Price = price
	prod.Tags = req.Tags
	prod.Count = req.Count

	if err := r.SaveProduct(ctx, &prod); err != nil {
		return respondError(c, err)
	}
	h.invalidate(c, prod.ID)

	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	rows, err := repo.New(h.DB).DeleteProduct(c.Request().Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	if rows == 0 {
		return respondError(c, apperr.NotFound(apperr.CodeProductNotFound, "product not found"))
	}
	h.invalidate(c, uint(id))

	publish(c, h.Producer, "product_events", fmt.Sprint(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) invalidate(c echo.Context, id uint) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Delete(c.Request().Context(), id); err != nil {
		logging.FromContext(c.Request().Context()).Warn("product cache invalidation failed", "error", err)
	}
}
