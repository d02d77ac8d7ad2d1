package service

import (
	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

var deliveryFees = map[model.Transport]decimal.Decimal{
	model.TransportBike:       decimal.RequireFromString("2.00"),
	model.TransportMotorcycle: decimal.RequireFromString("4.00"),
	model.TransportCar:        decimal.RequireFromString("6.00"),
}

// DeliveryFee is the fee charged for a transport. No transport, or an
// unknown one, costs nothing.
func DeliveryFee(transport *model.Transport) decimal.Decimal {
	if transport == nil {
		return decimal.Zero
	}
	if fee, ok := deliveryFees[*transport]; ok {
		return fee
	}
	return decimal.Zero
}

// Subtotal sums price × quantity over the items.
func Subtotal(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total.Round(2)
}

// CartTotals prices a cart exactly the way checkout does.
type CartTotals struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
	ItemCount   int
}

func PriceCart(cart *model.Cart) CartTotals {
	subtotal := Subtotal(cart.Items)
	fee := DeliveryFee(cart.Transport)

	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
	}

	return CartTotals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
		ItemCount:   count,
	}
}
