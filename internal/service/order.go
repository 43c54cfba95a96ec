package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mpozdnyakov/storefront/internal/apperr"
	"github.com/mpozdnyakov/storefront/internal/models"
	"github.com/mpozdnyakov/storefront/internal/repo"
	"github.com/mpozdnyakov/storefront/internal/util"
)

type OrderService struct {
	DB *gorm.DB
}

// PlaceOrderResult distinguishes a created order from the non-error
// "cart is empty" outcome.
type PlaceOrderResult struct {
	EmptyCart bool
	Order     *models.Order
}

// PlaceOrder converts the user's cart into an order. Cart snapshot,
// address resolution, pricing, order + event writes and the cart clear
// all run in one transaction; any failure rolls everything back.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, shippingAddressID *uint) (PlaceOrderResult, error) {
	var result PlaceOrderResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		r := repo.New(tx)

		lines, err := r.CartLines(ctx, userID)
		if err != nil {
			return fmt.Errorf("read cart: %w", err)
		}
		if len(lines) == 0 {
			result.EmptyCart = true
			return nil
		}

		snapshot, err := addressSnapshot(ctx, r, shippingAddressID)
		if err != nil {
			return err
		}

		items, net, err := PriceLines(ctx, r, lines)
		if err != nil {
			return err
		}

		order := models.Order{
			Number:    uuid.NewString(),
			UserID:    userID,
			NetAmount: net,
			Address:   snapshot,
			Status:    models.OrderStatusPending,
			CreatedAt: time.Now().Unix(),
		}
		if err := r.CreateOrder(ctx, &order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := r.CreateOrderItems(ctx, items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		ev := models.OrderEvent{
			OrderID:   order.ID,
			Status:    order.Status,
			CreatedAt: order.CreatedAt,
		}
		if err := r.CreateOrderEvent(ctx, &ev); err != nil {
			return fmt.Errorf("create order event: %w", err)
		}

		// Delete only the lines that went into this order. A line the
		// user added after the snapshot read stays in the cart.
		lineIDs := make([]uint, 0, len(lines))
		for _, l := range lines {
			lineIDs = append(lineIDs, l.ID)
		}
		if err := r.DeleteCartLinesByID(ctx, userID, lineIDs); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		order.Items = items
		order.Events = []models.OrderEvent{ev}
		result.Order = &order
		return nil
	})
	if err != nil {
		return PlaceOrderResult{}, err
	}
	return result, nil
}

// An order keeps the address text it was created with even when the
// referenced address is later edited or deleted. A user without a
// default shipping address still gets an order, with an empty snapshot.
func addressSnapshot(ctx context.Context, r *repo.Repo, addressID *uint) (string, error) {
	if addressID == nil {
		return "", nil
	}
	addr, err := r.AddressByID(ctx, *addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load address: %w", err)
	}
	return addr.FormattedAddress(), nil
}

// ChangeStatus moves an order to a new status and appends the matching
// event in the same transaction.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID uint, rawStatus string) (models.Order, error) {
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return models.Order{}, err
	}

	var order models.Order
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		r := repo.New(tx)

		order, err = r.OrderByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(apperr.CodeOrderNotFound, "order not found")
			}
			return fmt.Errorf("load order: %w", err)
		}

		if !CanTransition(order.Status, status) {
			return apperr.Validation(fmt.Sprintf("cannot transition from %s to %s", order.Status, status))
		}

		if err := r.UpdateOrderStatus(ctx, order.ID, status); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		ev := models.OrderEvent{
			OrderID:   order.ID,
			Status:    status,
			CreatedAt: time.Now().Unix(),
		}
		if err := r.CreateOrderEvent(ctx, &ev); err != nil {
			return fmt.Errorf("create order event: %w", err)
		}

		order.Status = status
		order.Events = append(order.Events, ev)
		return nil
	})
	if txErr != nil {
		return models.Order{}, txErr
	}
	return order, nil
}

// CancelOrder targets CANCELLED. Non-admin callers may only cancel
// their own orders.
func (s *OrderService) CancelOrder(ctx context.Context, userID uint, admin bool, orderID uint) (models.Order, error) {
	if !admin {
		order, err := repo.New(s.DB).OrderByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Order{}, apperr.NotFound(apperr.CodeOrderNotFound, "order not found")
			}
			return models.Order{}, fmt.Errorf("load order: %w", err)
		}
		if order.UserID != userID {
			return models.Order{}, apperr.Unauthorized(apperr.CodeUnauthorized, "order does not belong to user")
		}
	}
	return s.ChangeStatus(ctx, orderID, string(models.OrderStatusCancelled))
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (models.Order, error) {
	order, err := repo.New(s.DB).OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, apperr.NotFound(apperr.CodeOrderNotFound, "order not found")
		}
		return models.Order{}, fmt.Errorf("load order: %w", err)
	}
	return order, nil
}

type ListOrdersQuery struct {
	UserID   uint
	Status   string
	Page     int
	PageSize int
}

// OrderPage is the listing response shape for pagination UIs.
type OrderPage struct {
	Items      []models.Order `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
}

func (s *OrderService) ListOrders(ctx context.Context, q ListOrdersQuery) (OrderPage, error) {
	filter := repo.OrderFilter{UserID: q.UserID}
	if q.Status != "" {
		status, err := ParseStatus(q.Status)
		if err != nil {
			return OrderPage{}, err
		}
		filter.Status = status
	}

	page, size := util.Clamp(q.Page, q.PageSize)
	offset, limit := util.Calculate(page, size)

	orders, total, err := repo.New(s.DB).ListOrders(ctx, filter, offset, limit)
	if err != nil {
		return OrderPage{}, fmt.Errorf("list orders: %w", err)
	}

	return OrderPage{
		Items:      orders,
		Page:       page,
		PageSize:   limit,
		TotalItems: total,
	}, nil
}
