package service

import (
	"errors"
	"io"

	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/foodiehub/foodiehub-backend/internal/app/repository"
	"github.com/foodiehub/foodiehub-backend/internal/metrics"
	"github.com/foodiehub/foodiehub-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrOrderForbidden = errors.New("order belongs to another user")
	ErrEmptyCart      = errors.New("cart is empty")
)

type OrderService interface {
	Checkout(userID uint) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	ExportOrders(userID uint, w io.Writer) error
}

type orderService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
) OrderService {
	return &orderService{
		db:        db,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
	}
}

// Checkout turns the user's cart into an order. Reading the cart, writing the
// order and emptying the cart happen in one transaction that holds the cart
// row lock, so of two concurrent checkouts the second sees an empty cart.
func (s *orderService) Checkout(userID uint) (*model.Order, error) {
	logger.Info("Checking out cart", map[string]interface{}{
		"user_id": userID,
	})

	var order *model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.cartRepo.WithTx(tx)

		cart, err := carts.LockByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}

		items, err := carts.FindItems(cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		cart.Items = items
		totals := PriceCart(cart)

		order = &model.Order{
			UserID:      userID,
			Subtotal:    totals.Subtotal,
			DeliveryFee: totals.DeliveryFee,
			Total:       totals.Total,
			Transport:   cart.Transport,
			Status:      model.OrderStatusPlaced,
			Items:       make([]model.OrderItem, 0, len(items)),
		}
		for _, item := range items {
			order.Items = append(order.Items, model.OrderItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Price:     item.Price,
				Quantity:  item.Quantity,
				ImageURL:  item.ImageURL,
			})
		}

		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}
		if err := carts.ClearItems(cart.ID); err != nil {
			return err
		}
		return carts.SetTransport(cart.ID, nil)
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			metrics.RecordCheckout(metrics.CheckoutEmpty)
			logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrEmptyCart
		}
		metrics.RecordCheckout(metrics.CheckoutFailed)
		logger.Error("Checkout failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	metrics.RecordCheckout(metrics.CheckoutPlaced)
	metrics.RecordOrderValue(order.Total.InexactFloat64())
	logger.Info("Order placed", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
		"subtotal": order.Subtotal.StringFixed(2),
		"fee":      order.DeliveryFee.StringFixed(2),
		"total":    order.Total.StringFixed(2),
	})

	placed, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		// The order is committed; fall back to the in-memory copy.
		logger.Error("Failed to reload placed order", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return order, nil
	}
	return placed, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("User orders fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Unauthorized order access attempt", map[string]interface{}{
			"user_id":  userID,
			"owner_id": order.UserID,
			"order_id": orderID,
		})
		return nil, ErrOrderForbidden
	}

	return order, nil
}
