package models

import "strings"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string `gorm:"not null"                  json:"name"`
	Description string `gorm:"not null"                  json:"description"`
	Price       int64  `gorm:"not null"                  json:"price"` // minor units
	Tags        string `json:"tags"`
	Count       uint   `json:"count"`
}

type User struct {
	ID                       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username                 string `gorm:"unique;not null"          json:"username"`
	Role                     string `gorm:"not null"                 json:"role"`
	DefaultShippingAddressID *uint  `json:"default_shipping_address_id"`
	DefaultBillingAddressID  *uint  `json:"default_billing_address_id"`
}

type Address struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  uint   `gorm:"index;not null"           json:"user_id"`
	LineOne string `gorm:"not null"                 json:"line_one"`
	LineTwo string `json:"line_two"`
	City    string `gorm:"not null"                 json:"city"`
	Country string `gorm:"not null"                 json:"country"`
	Pincode string `gorm:"not null"                 json:"pincode"`
}

// FormattedAddress is the text embedded into orders as a snapshot.
func (a Address) FormattedAddress() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.LineOne, a.LineTwo, a.City, a.Country, a.Pincode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                                   json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_cart_user_product"   json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_user_product"   json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"                   json:"quantity"`
}

type Order struct {
	ID        uint        `gorm:"primaryKey"      json:"id"`
	Number    string      `gorm:"unique;not null" json:"number"`
	UserID    uint        `gorm:"index;not null"  json:"user_id"`
	NetAmount int64       `gorm:"not null"        json:"net_amount"` // minor units
	Address   string      `json:"address"`
	Status    OrderStatus `gorm:"not null"        json:"status"`
	CreatedAt int64       `gorm:"index;not null"  json:"created_at"`

	Items  []OrderItem  `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Events []OrderEvent `gorm:"foreignKey:OrderID" json:"events,omitempty"`
}

type OrderItem struct {
	ID        uint  `gorm:"primaryKey"                  json:"id"`
	OrderID   uint  `gorm:"index;not null"              json:"order_id"`
	ProductID uint  `gorm:"not null"                    json:"product_id"`
	Quantity  uint  `gorm:"default:1;check:quantity>0"  json:"quantity"`
	UnitPrice int64 `gorm:"not null"                    json:"unit_price"` // minor units, captured at order time
}

type OrderEvent struct {
	ID        uint        `gorm:"primaryKey"     json:"id"`
	OrderID   uint        `gorm:"index;not null" json:"order_id"`
	Status    OrderStatus `gorm:"not null"       json:"status"`
	CreatedAt int64       `gorm:"not null"       json:"created_at"`
}
