package controller

import (
	"time"

	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/foodiehub/foodiehub-backend/internal/app/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// money renders an amount with exactly two fraction digits.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func presentCartItem(item model.CartItem) gin.H {
	return gin.H{
		"id":         item.ID,
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"name":       item.Name,
		"price":      money(item.Price),
		"quantity":   item.Quantity,
		"image_url":  item.ImageURL,
		"line_total": money(item.LineTotal()),
		"created_at": item.CreatedAt,
		"updated_at": item.UpdatedAt,
	}
}

// presentCart includes the totals the client shows in the cart drawer. They
// come from the same pricing used at checkout.
func presentCart(cart *model.Cart) gin.H {
	items := make([]gin.H, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, presentCartItem(item))
	}
	totals := service.PriceCart(cart)

	return gin.H{
		"id":             cart.ID,
		"user_id":        cart.UserID,
		"transport":      cart.Transport,
		"items":          items,
		"subtotal":       money(totals.Subtotal),
		"transport_cost": money(totals.DeliveryFee),
		"total":          money(totals.Total),
		"item_count":     totals.ItemCount,
		"created_at":     cart.CreatedAt,
		"updated_at":     cart.UpdatedAt,
	}
}

func presentOrder(order *model.Order) gin.H {
	items := make([]gin.H, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, gin.H{
			"id":         item.ID,
			"order_id":   item.OrderID,
			"product_id": item.ProductID,
			"name":       item.Name,
			"price":      money(item.Price),
			"quantity":   item.Quantity,
			"image_url":  item.ImageURL,
			"line_total": money(item.LineTotal()),
		})
	}

	return gin.H{
		"id":           order.ID,
		"user_id":      order.UserID,
		"subtotal":     money(order.Subtotal),
		"delivery_fee": money(order.DeliveryFee),
		"total":        money(order.Total),
		"transport":    order.Transport,
		"status":       order.Status,
		"items":        items,
		"created_at":   order.CreatedAt,
		"updated_at":   order.UpdatedAt,
	}
}

func presentOrders(orders []model.Order) []gin.H {
	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, presentOrder(&orders[i]))
	}
	return out
}

func presentProduct(p *model.Product) gin.H {
	return gin.H{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"category":    p.Category,
		"price":       money(p.Price),
		"popularity":  p.Popularity,
		"image_url":   p.ImageURL,
	}
}

// exportFilename names the order history download, e.g. orders-20240131.xlsx.
func exportFilename(now time.Time) string {
	return "orders-" + now.Format("20060102") + ".xlsx"
}
