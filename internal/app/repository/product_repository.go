package repository

import (
	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/foodiehub/foodiehub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductSort string

const (
	ProductSortPriceAsc  ProductSort = "price-asc"
	ProductSortPriceDesc ProductSort = "price-desc"
)

type ProductFilter struct {
	Category      *model.ProductCategory
	MinPopularity int
	SortBy        ProductSort
}

type ProductRepository interface {
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	// Upsert inserts products in batches, updating existing rows matched by name.
	Upsert(products []model.Product, batchSize int) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter in database", map[string]interface{}{
		"category":       filter.Category,
		"min_popularity": filter.MinPopularity,
		"sort":           filter.SortBy,
	})

	query := r.db.Model(&model.Product{})
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.MinPopularity > 0 {
		query = query.Where("popularity >= ?", filter.MinPopularity)
	}

	switch filter.SortBy {
	case ProductSortPriceDesc:
		query = query.Order("price DESC")
	default:
		query = query.Order("price ASC")
	}

	var products []model.Product
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter in database", err)
		return nil, err
	}

	logger.Debug("Products found with filter in database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		logLookupFailure("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Upsert(products []model.Product, batchSize int) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "category", "price", "popularity", "image_url", "updated_at"}),
	}).CreateInBatches(products, batchSize)
	if result.Error != nil {
		logger.Error("Failed to upsert products in database", result.Error, map[string]interface{}{
			"count": len(products),
		})
		return 0, result.Error
	}

	logger.Debug("Products upserted in database", map[string]interface{}{
		"rows": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
