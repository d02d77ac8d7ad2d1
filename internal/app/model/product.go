package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryBurger  ProductCategory = "burger"
	CategoryPizza   ProductCategory = "pizza"
	CategoryDrink   ProductCategory = "drink"
	CategoryDessert ProductCategory = "dessert"
)

var ProductCategories = []ProductCategory{CategoryBurger, CategoryPizza, CategoryDrink, CategoryDessert}

func (c ProductCategory) Valid() bool {
	for _, known := range ProductCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Product is a catalog entry. Cart items copy name, price and image from it
// but do not reference it by foreign key.
type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Name        string          `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    ProductCategory `gorm:"type:varchar(50);not null;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Popularity  int             `gorm:"not null;default:0" json:"popularity"` // 0-100
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
