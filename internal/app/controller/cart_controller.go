package controller

import (
	"net/http"

	"github.com/foodiehub/foodiehub-backend/internal/app/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/foodiehub/foodiehub-backend/internal/errors"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

// AddItemRequest accepts price as a JSON number or a numeric string.
type AddItemRequest struct {
	ProductID *uint            `json:"product_id"`
	Name      string           `json:"name" validate:"required"`
	Price     *decimal.Decimal `json:"price" validate:"required"`
	Quantity  *int             `json:"quantity"`
	ImageURL  *string          `json:"image_url"`
}

type SetTransportRequest struct {
	Transport string `json:"transport" validate:"required"`
}

// GetCart returns the user's cart with totals
// GET /cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		respondServiceError(c, err, "load cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": presentCart(cart)})
}

// AddItem adds an item or merges it into a matching line
// POST /cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, item, err := ctrl.cartService.AddItem(userID, service.AddItemInput{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     *req.Price,
		Quantity:  quantity,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		respondServiceError(c, err, "add item to cart")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added successfully",
		"cart":    presentCart(cart),
		"item":    presentCartItem(*item),
	})
}

// RemoveItem deletes one line of the user's cart
// DELETE /cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	itemID, ok := parseIDParam(c, "id", apperrors.CartItemNotFound)
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveItem(userID, itemID); err != nil {
		respondServiceError(c, err, "remove cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}

// SetTransport selects the delivery method
// PUT /cart/transport
func (ctrl *CartController) SetTransport(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SetTransportRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := ctrl.cartService.SetTransport(userID, req.Transport)
	if err != nil {
		respondServiceError(c, err, "update transport")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transport updated",
		"cart":    presentCart(cart),
	})
}
