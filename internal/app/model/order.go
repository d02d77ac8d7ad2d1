package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is an immutable snapshot of a cart taken at checkout.
type Order struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"delivery_fee"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"` // subtotal + delivery_fee
	Transport   *Transport      `gorm:"type:varchar(20)" json:"transport"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'placed'" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	User  User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID *uint           `gorm:"index" json:"product_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	ImageURL  *string         `gorm:"size:2048" json:"image_url"`
	CreatedAt time.Time       `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
