package service

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/foodiehub/foodiehub-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Catalog workbook columns, in order. The first row is a header.
var catalogColumns = []string{"name", "category", "price", "popularity", "image_url", "description"}

// CatalogImport is the result of reading a catalog workbook.
type CatalogImport struct {
	Products []model.Product
	Skipped  []string // one reason per rejected row
}

// ParseCatalogXLSX reads products from the first sheet of an xlsx workbook.
// Invalid rows are skipped and reported rather than failing the import.
func ParseCatalogXLSX(r io.Reader) (*CatalogImport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	result := &CatalogImport{}
	seen := make(map[string]bool)

	for i, row := range rows[1:] {
		line := i + 2
		product, err := parseCatalogRow(row)
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		key := strings.ToLower(product.Name)
		if seen[key] {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: duplicate name %q", line, product.Name))
			continue
		}
		seen[key] = true
		result.Products = append(result.Products, product)
	}

	logger.Info("Catalog workbook parsed", map[string]interface{}{
		"sheet":    sheetName,
		"products": len(result.Products),
		"skipped":  len(result.Skipped),
	})
	return result, nil
}

func parseCatalogRow(row []string) (model.Product, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := cell(0)
	if name == "" {
		return model.Product{}, fmt.Errorf("missing %s", catalogColumns[0])
	}

	category := model.ProductCategory(strings.ToLower(cell(1)))
	if !category.Valid() {
		return model.Product{}, fmt.Errorf("unknown category %q", cell(1))
	}

	price, err := decimal.NewFromString(cell(2))
	if err != nil || price.IsNegative() {
		return model.Product{}, fmt.Errorf("invalid price %q", cell(2))
	}

	popularity := 0
	if raw := cell(3); raw != "" {
		popularity, err = strconv.Atoi(raw)
		if err != nil || popularity < 0 || popularity > 100 {
			return model.Product{}, fmt.Errorf("invalid popularity %q", raw)
		}
	}

	return model.Product{
		Name:        name,
		Category:    category,
		Price:       price.Round(2),
		Popularity:  popularity,
		ImageURL:    cell(4),
		Description: cell(5),
	}, nil
}
