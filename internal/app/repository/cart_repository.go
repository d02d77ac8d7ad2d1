package repository

import (
	"errors"

	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/foodiehub/foodiehub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) CartRepository

	FindOrCreateByUserID(userID uint) (*model.Cart, error)
	FindByUserID(userID uint) (*model.Cart, error)
	// LockByUserID reads the cart row with SELECT ... FOR UPDATE. It must be
	// called inside a transaction.
	LockByUserID(userID uint) (*model.Cart, error)
	FindByID(id uint) (*model.Cart, error)
	SetTransport(cartID uint, transport *model.Transport) error

	FindItems(cartID uint) ([]model.CartItem, error)
	FindItemByID(id uint) (*model.CartItem, error)
	FindMatchingItem(cartID uint, productID *uint, name string) (*model.CartItem, error)
	CreateItem(item *model.CartItem) error
	UpdateItem(item *model.CartItem) error
	DeleteItem(id uint) error
	ClearItems(cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) WithTx(tx *gorm.DB) CartRepository {
	return &cartRepository{db: tx}
}

func preloadCartItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.id ASC")
	})
}

// FindOrCreateByUserID is safe under concurrent first access: the insert is a
// no-op when another request created the row first.
func (r *cartRepository) FindOrCreateByUserID(userID uint) (*model.Cart, error) {
	cart, err := r.FindByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id": userID,
	})

	fresh := model.Cart{UserID: userID}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return r.FindByUserID(userID)
}

func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := preloadCartItems(r.db).Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		logLookupFailure("Failed to find cart by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart found by user ID in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
		"items":   len(cart.Items),
	})
	return &cart, nil
}

func (r *cartRepository) LockByUserID(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		logLookupFailure("Failed to lock cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart locked in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
	})
	return &cart, nil
}

func (r *cartRepository) FindByID(id uint) (*model.Cart, error) {
	var cart model.Cart
	if err := preloadCartItems(r.db).First(&cart, id).Error; err != nil {
		logLookupFailure("Failed to find cart by ID in database", err, map[string]interface{}{
			"cart_id": id,
		})
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) SetTransport(cartID uint, transport *model.Transport) error {
	// Update with a map so a nil transport is written as NULL.
	err := r.db.Model(&model.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{"transport": transport}).Error
	if err != nil {
		logger.Error("Failed to set cart transport in database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}

	logger.Debug("Cart transport set in database", map[string]interface{}{
		"cart_id":   cartID,
		"transport": transport,
	})
	return nil
}

func (r *cartRepository) FindItems(cartID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error
	if err != nil {
		logger.Error("Failed to find cart items in database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}

	logger.Debug("Cart items found in database", map[string]interface{}{
		"cart_id": cartID,
		"count":   len(items),
	})
	return items, nil
}

func (r *cartRepository) FindItemByID(id uint) (*model.CartItem, error) {
	var item model.CartItem
	if err := r.db.First(&item, id).Error; err != nil {
		logLookupFailure("Failed to find cart item by ID in database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return nil, err
	}
	return &item, nil
}

// FindMatchingItem looks up the row an add-item request merges into: same
// product when productID is set, otherwise an unreferenced item of the same name.
func (r *cartRepository) FindMatchingItem(cartID uint, productID *uint, name string) (*model.CartItem, error) {
	query := r.db.Where("cart_id = ?", cartID)
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	} else {
		query = query.Where("product_id IS NULL AND name = ?", name)
	}

	var item model.CartItem
	if err := query.Order("id ASC").First(&item).Error; err != nil {
		logLookupFailure("No matching cart item in database", err, map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
		})
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) CreateItem(item *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) UpdateItem(item *model.CartItem) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})

	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItem(id uint) error {
	if err := r.db.Delete(&model.CartItem{}, id).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}

	logger.Debug("Cart item deleted from database", map[string]interface{}{
		"cart_item_id": id,
	})
	return nil
}

func (r *cartRepository) ClearItems(cartID uint) error {
	result := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to clear cart items in database", result.Error, map[string]interface{}{
			"cart_id": cartID,
		})
		return result.Error
	}

	logger.Debug("Cart items cleared in database", map[string]interface{}{
		"cart_id": cartID,
		"deleted": result.RowsAffected,
	})
	return nil
}
