package controller

import (
	"bytes"
	"net/http"
	"time"

	"github.com/foodiehub/foodiehub-backend/internal/app/service"
	"github.com/foodiehub/foodiehub-backend/internal/middleware"
	"github.com/gin-gonic/gin"

	apperrors "github.com/foodiehub/foodiehub-backend/internal/errors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// Checkout converts the cart into an order
// POST /cart/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	order, err := ctrl.orderService.Checkout(userID)
	if err != nil {
		respondServiceError(c, err, "submit order")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Order submitted", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order submitted successfully",
		"order":   presentOrder(order),
	})
}

// ListOrders returns the user's orders, newest first
// GET /orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		respondServiceError(c, err, "load orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": presentOrders(orders)})
}

// GetOrder returns one order of the user
// GET /orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id", apperrors.OrderNotFound)
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, orderID)
	if err != nil {
		respondServiceError(c, err, "load order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": presentOrder(order)})
}

// ExportOrders downloads the order history as a spreadsheet
// GET /orders/export
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := ctrl.orderService.ExportOrders(userID, &buf); err != nil {
		respondServiceError(c, err, "export orders")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename(time.Now())+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
