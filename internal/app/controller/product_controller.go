package controller

import (
	"net/http"

	"github.com/foodiehub/foodiehub-backend/internal/app/service"
	"github.com/gin-gonic/gin"

	apperrors "github.com/foodiehub/foodiehub-backend/internal/errors"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ListProducts returns the catalog
// GET /products?category=&popular=&sort=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	products, err := ctrl.productService.ListProducts(service.ProductQuery{
		Category: c.Query("category"),
		Popular:  c.Query("popular"),
		Sort:     c.Query("sort"),
	})
	if err != nil {
		respondServiceError(c, err, "load products")
		return
	}

	out := make([]gin.H, 0, len(products))
	for i := range products {
		out = append(out, presentProduct(&products[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"products": out,
		"count":    len(out),
	})
}

// GetProduct returns one catalog entry
// GET /products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id", apperrors.ProductNotFound)
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProduct(productID)
	if err != nil {
		respondServiceError(c, err, "load product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": presentProduct(product)})
}
