package service

import (
	"fmt"
	"io"

	"github.com/foodiehub/foodiehub-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const orderExportSheet = "Orders"

var orderExportHeader = []interface{}{
	"Order ID", "Placed At", "Status", "Transport",
	"Item", "Quantity", "Unit Price", "Line Total",
	"Subtotal", "Delivery Fee", "Order Total",
}

// ExportOrders writes the user's order history as an xlsx workbook with one
// row per order item.
func (s *orderService) ExportOrders(userID uint, w io.Writer) error {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), orderExportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(orderExportSheet, "A1", &orderExportHeader); err != nil {
		return err
	}

	row := 2
	for _, order := range orders {
		transport := ""
		if order.Transport != nil {
			transport = string(*order.Transport)
		}
		for _, item := range order.Items {
			values := []interface{}{
				order.ID,
				order.CreatedAt.Format("2006-01-02 15:04"),
				string(order.Status),
				transport,
				item.Name,
				item.Quantity,
				item.Price.InexactFloat64(),
				item.LineTotal().InexactFloat64(),
				order.Subtotal.InexactFloat64(),
				order.DeliveryFee.InexactFloat64(),
				order.Total.InexactFloat64(),
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(orderExportSheet, cell, &values); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Order history exported", map[string]interface{}{
		"user_id": userID,
		"orders":  len(orders),
		"rows":    row - 2,
	})
	return nil
}
