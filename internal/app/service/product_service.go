package service

import (
	"errors"
	"strings"

	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/foodiehub/foodiehub-backend/internal/app/repository"
	"github.com/foodiehub/foodiehub-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// Popularity thresholds behind the "popular" catalog filter.
var popularityThresholds = map[string]int{
	"top10": 90,
	"top20": 80,
}

// ProductQuery mirrors the catalog's query string. Empty values and "all"
// mean no filter.
type ProductQuery struct {
	Category string
	Popular  string
	Sort     string
}

type ProductService interface {
	ListProducts(query ProductQuery) ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListProducts(query ProductQuery) ([]model.Product, error) {
	filter := repository.ProductFilter{SortBy: repository.ProductSortPriceAsc}
	verr := &ValidationError{}

	if category := strings.ToLower(strings.TrimSpace(query.Category)); category != "" && category != "all" {
		c := model.ProductCategory(category)
		if !c.Valid() {
			verr.add("category", "The selected category is invalid.")
		}
		filter.Category = &c
	}

	if popular := strings.ToLower(strings.TrimSpace(query.Popular)); popular != "" && popular != "all" {
		threshold, ok := popularityThresholds[popular]
		if !ok {
			verr.add("popular", "The selected popular filter is invalid.")
		}
		filter.MinPopularity = threshold
	}

	switch sort := repository.ProductSort(strings.ToLower(strings.TrimSpace(query.Sort))); sort {
	case "", repository.ProductSortPriceAsc:
	case repository.ProductSortPriceDesc:
		filter.SortBy = sort
	default:
		verr.add("sort", "The selected sort is invalid.")
	}

	if !verr.empty() {
		return nil, verr
	}

	products, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}
	return products, nil
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}
