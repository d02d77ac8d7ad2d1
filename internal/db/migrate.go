package db

import (
	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/foodiehub/foodiehub-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Models lists every table owned by the application, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed fills the catalog when it is empty.
func Seed() error {
	return SeedProducts(DB)
}

// SeedProducts inserts the default catalog into an empty products table.
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Products already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	products := DefaultProducts()
	if err := db.CreateInBatches(products, 50).Error; err != nil {
		logger.Error("Failed to seed products", err)
		return err
	}

	logger.Info("Products seeded successfully", map[string]interface{}{
		"total_products": len(products),
	})
	return nil
}

// DefaultProducts is the catalog shipped with the application.
func DefaultProducts() []model.Product {
	item := func(name string, category model.ProductCategory, price string, popularity int, image, description string) model.Product {
		return model.Product{
			Name:        name,
			Category:    category,
			Price:       decimal.RequireFromString(price),
			Popularity:  popularity,
			ImageURL:    image,
			Description: description,
		}
	}

	return []model.Product{
		item("Classic Cheeseburger", model.CategoryBurger, "8.50", 95, "https://picsum.photos/seed/cheeseburger/600/400", "Beef patty, cheddar, pickles and house sauce."),
		item("Double Bacon Burger", model.CategoryBurger, "11.90", 88, "https://picsum.photos/seed/baconburger/600/400", "Two patties, smoked bacon and onion jam."),
		item("Veggie Burger", model.CategoryBurger, "9.20", 74, "https://picsum.photos/seed/veggieburger/600/400", "Chickpea patty with avocado and greens."),
		item("Margherita", model.CategoryPizza, "10.00", 92, "https://picsum.photos/seed/margherita/600/400", "Tomato, mozzarella and basil."),
		item("Pepperoni", model.CategoryPizza, "12.50", 90, "https://picsum.photos/seed/pepperoni/600/400", "Spicy pepperoni and mozzarella."),
		item("Quattro Formaggi", model.CategoryPizza, "13.40", 81, "https://picsum.photos/seed/quattro/600/400", "Four cheeses on a thin crust."),
		item("Cola", model.CategoryDrink, "2.50", 85, "https://picsum.photos/seed/cola/600/400", "Chilled 330ml can."),
		item("Fresh Lemonade", model.CategoryDrink, "3.50", 83, "https://picsum.photos/seed/lemonade/600/400", "Squeezed to order with mint."),
		item("Iced Coffee", model.CategoryDrink, "4.20", 67, "https://picsum.photos/seed/icedcoffee/600/400", "Cold brew over ice."),
		item("Chocolate Brownie", model.CategoryDessert, "4.90", 91, "https://picsum.photos/seed/brownie/600/400", "Warm brownie with a fudge centre."),
		item("Cheesecake", model.CategoryDessert, "5.50", 79, "https://picsum.photos/seed/cheesecake/600/400", "New York style with berry coulis."),
		item("Tiramisu", model.CategoryDessert, "6.00", 86, "https://picsum.photos/seed/tiramisu/600/400", "Mascarpone, espresso and cocoa."),
	}
}
