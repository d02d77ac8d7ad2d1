package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transport is the delivery method chosen for a cart. A nil *Transport means
// none was chosen.
type Transport string

const (
	TransportBike       Transport = "bike"
	TransportMotorcycle Transport = "motorcycle"
	TransportCar        Transport = "car"
)

// Transports lists every accepted transport key.
var Transports = []Transport{TransportBike, TransportMotorcycle, TransportCar}

func (t Transport) Valid() bool {
	for _, known := range Transports {
		if t == known {
			return true
		}
	}
	return false
}

// Cart is the single open cart of a user. It is reused after checkout.
type Cart struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Transport *Transport `gorm:"type:varchar(20)" json:"transport"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	User  User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Cart) TableName() string {
	return "carts"
}

type CartItem struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	CartID    uint            `gorm:"not null;index" json:"cart_id"`
	ProductID *uint           `gorm:"index" json:"product_id"` // catalog reference, optional
	Name      string          `gorm:"size:255;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
	ImageURL  *string         `gorm:"size:2048" json:"image_url"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal is price × quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
