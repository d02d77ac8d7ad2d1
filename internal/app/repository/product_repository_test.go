package repository

import (
	"testing"

	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/foodiehub/foodiehub-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProductTest(t *testing.T) ProductRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	require.NoError(t, db.SeedProducts(testDB))
	return NewProductRepository(testDB)
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	repo := setupProductTest(t)

	t.Run("all products sorted by price ascending", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{})
		require.NoError(t, err)
		require.Len(t, products, len(db.DefaultProducts()))
		for i := 1; i < len(products); i++ {
			assert.True(t, products[i-1].Price.LessThanOrEqual(products[i].Price))
		}
	})

	t.Run("category and popularity", func(t *testing.T) {
		pizza := model.CategoryPizza
		products, err := repo.FindWithFilter(ProductFilter{Category: &pizza, MinPopularity: 90, SortBy: ProductSortPriceDesc})
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Pepperoni", products[0].Name)
		assert.Equal(t, "Margherita", products[1].Name)
	})
}

func TestProductRepository_Upsert(t *testing.T) {
	repo := setupProductTest(t)

	_, err := repo.Upsert([]model.Product{
		{Name: "Cola", Category: model.CategoryDrink, Price: decimal.RequireFromString("2.80"), Popularity: 85},
		{Name: "Milkshake", Category: model.CategoryDrink, Price: decimal.RequireFromString("4.50"), Popularity: 70},
	}, 10)
	require.NoError(t, err)

	drink := model.CategoryDrink
	products, err := repo.FindWithFilter(ProductFilter{Category: &drink})
	require.NoError(t, err)
	require.Len(t, products, 4)

	prices := map[string]string{}
	for _, p := range products {
		prices[p.Name] = p.Price.StringFixed(2)
	}
	assert.Equal(t, "2.80", prices["Cola"])
	assert.Equal(t, "4.50", prices["Milkshake"])
}
