package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/foodiehub/foodiehub-backend/internal/app/repository"
	"github.com/foodiehub/foodiehub-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxItemQuantity caps the quantity of a single cart line.
const MaxItemQuantity = 10000

var (
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrCartItemForbidden = errors.New("cart item belongs to another user")
)

// AddItemInput describes one add-to-cart request. Items are keyed by
// ProductID; items without one are keyed by Name.
type AddItemInput struct {
	ProductID *uint
	Name      string
	Price     decimal.Decimal
	Quantity  int
	ImageURL  *string
}

type CartService interface {
	GetCart(userID uint) (*model.Cart, error)
	AddItem(userID uint, input AddItemInput) (*model.Cart, *model.CartItem, error)
	RemoveItem(userID, itemID uint) error
	SetTransport(userID uint, transport string) (*model.Cart, error)
}

type cartService struct {
	db       *gorm.DB
	cartRepo repository.CartRepository
}

func NewCartService(db *gorm.DB, cartRepo repository.CartRepository) CartService {
	return &cartService{
		db:       db,
		cartRepo: cartRepo,
	}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *cartService) GetCart(userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindOrCreateByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("User cart fetched", map[string]interface{}{
		"user_id": userID,
		"cart_id": cart.ID,
		"items":   len(cart.Items),
	})
	return cart, nil
}

var quantityTooLarge = fmt.Sprintf("The quantity may not be greater than %d.", MaxItemQuantity)

func validateAddItem(input *AddItemInput) error {
	verr := &ValidationError{}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		verr.add("name", "The name field is required.")
	} else if len(input.Name) > 255 {
		verr.add("name", "The name may not be greater than 255 characters.")
	}
	if input.Price.IsNegative() {
		verr.add("price", "The price must be at least 0.")
	}
	if input.Quantity < 1 {
		verr.add("quantity", "The quantity must be at least 1.")
	} else if input.Quantity > MaxItemQuantity {
		verr.add("quantity", quantityTooLarge)
	}
	if input.ImageURL != nil {
		trimmed := strings.TrimSpace(*input.ImageURL)
		if trimmed == "" {
			input.ImageURL = nil
		} else {
			input.ImageURL = &trimmed
		}
	}

	if verr.empty() {
		return nil
	}
	return verr
}

// AddItem merges into an existing line when the key matches: quantities add
// up and name, price and image take the latest values. The cart row is locked
// for the duration so the add cannot interleave with a checkout.
func (s *cartService) AddItem(userID uint, input AddItemInput) (*model.Cart, *model.CartItem, error) {
	if err := validateAddItem(&input); err != nil {
		logger.Warn("Rejected add to cart", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, nil, err
	}
	price := input.Price.Round(2)

	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": input.ProductID,
		"name":       input.Name,
		"quantity":   input.Quantity,
	})

	var item *model.CartItem
	var cartID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.cartRepo.WithTx(tx)

		if _, err := repo.FindOrCreateByUserID(userID); err != nil {
			return err
		}
		cart, err := repo.LockByUserID(userID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		existing, err := repo.FindMatchingItem(cart.ID, input.ProductID, input.Name)
		switch {
		case err == nil:
			if existing.Quantity > MaxItemQuantity-input.Quantity {
				return newValidationError("quantity", quantityTooLarge)
			}
			existing.Quantity += input.Quantity
			existing.Name = input.Name
			existing.Price = price
			existing.ImageURL = input.ImageURL
			if err := repo.UpdateItem(existing); err != nil {
				return err
			}
			item = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = &model.CartItem{
				CartID:    cart.ID,
				ProductID: input.ProductID,
				Name:      input.Name,
				Price:     price,
				Quantity:  input.Quantity,
				ImageURL:  input.ImageURL,
			}
			if err := repo.CreateItem(item); err != nil {
				return err
			}
		default:
			return err
		}
		return nil
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			logger.Warn("Rejected add to cart", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
			return nil, nil, err
		}
		logger.Error("Failed to add item to cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, nil, err
	}

	cart, err := s.cartRepo.FindByID(cartID)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})
	return cart, item, nil
}

// RemoveItem deletes one of the user's cart items. The cart row stays locked
// until the delete commits so a concurrent checkout sees either all of the
// items or none of the removed one.
func (s *cartService) RemoveItem(userID, itemID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": itemID,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.cartRepo.WithTx(tx)

		cart, err := repo.LockByUserID(userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		item, err := repo.FindItemByID(itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Cart item not found", map[string]interface{}{
					"user_id":      userID,
					"cart_item_id": itemID,
				})
				return ErrCartItemNotFound
			}
			return err
		}

		if cart == nil || item.CartID != cart.ID {
			logger.Warn("Unauthorized cart item removal attempt", map[string]interface{}{
				"user_id":      userID,
				"item_cart_id": item.CartID,
				"cart_item_id": itemID,
			})
			return ErrCartItemForbidden
		}

		return repo.DeleteItem(itemID)
	})
	if err != nil {
		if !errors.Is(err, ErrCartItemNotFound) && !errors.Is(err, ErrCartItemForbidden) {
			logger.Error("Failed to remove cart item", err, map[string]interface{}{
				"user_id":      userID,
				"cart_item_id": itemID,
			})
		}
		return err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": itemID,
	})
	return nil
}

func (s *cartService) SetTransport(userID uint, transport string) (*model.Cart, error) {
	choice := model.Transport(strings.TrimSpace(transport))
	if !choice.Valid() {
		logger.Warn("Rejected transport", map[string]interface{}{
			"user_id":   userID,
			"transport": transport,
		})
		return nil, newValidationError("transport", "The selected transport is invalid.")
	}

	cart, err := s.cartRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.SetTransport(cart.ID, &choice); err != nil {
		logger.Error("Failed to set transport", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
		})
		return nil, err
	}

	logger.Info("Cart transport updated", map[string]interface{}{
		"user_id":   userID,
		"cart_id":   cart.ID,
		"transport": choice,
	})
	return s.cartRepo.FindByID(cart.ID)
}
