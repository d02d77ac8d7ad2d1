package service

import (
	"fmt"
	"math"
	"testing"

	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/foodiehub/foodiehub-backend/internal/app/repository"
	"github.com/foodiehub/foodiehub-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }

func setupServiceDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, username string) *model.User {
	user := &model.User{
		Username:     username,
		PasswordHash: "hash",
		Name:         username,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func setupCartServiceTest(t *testing.T) (CartService, *model.User, *gorm.DB) {
	testDB := setupServiceDB(t)
	cartService := NewCartService(testDB, repository.NewCartRepository(testDB))
	return cartService, createTestUser(t, testDB, "alice"), testDB
}

func TestCartService_GetCart_CreatesEmptyCart(t *testing.T) {
	cartService, user, testDB := setupCartServiceTest(t)

	cart, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Nil(t, cart.Transport)

	again, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	var count int64
	testDB.Model(&model.Cart{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCartService_AddItem(t *testing.T) {
	t.Run("New item", func(t *testing.T) {
		cartService, user, _ := setupCartServiceTest(t)

		cart, item, err := cartService.AddItem(user.ID, AddItemInput{
			ProductID: uintPtr(5),
			Name:      "Margherita",
			Price:     decimal.RequireFromString("10.00"),
			Quantity:  1,
			ImageURL:  strPtr("https://img.example/m.jpg"),
		})
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, item.ID, cart.Items[0].ID)
		assert.Equal(t, 1, item.Quantity)
		assert.Equal(t, "10.00", item.Price.StringFixed(2))
		require.NotNil(t, item.ImageURL)
		assert.Equal(t, "https://img.example/m.jpg", *item.ImageURL)
	})

	t.Run("Same product merges and takes latest price", func(t *testing.T) {
		cartService, user, _ := setupCartServiceTest(t)

		_, first, err := cartService.AddItem(user.ID, AddItemInput{
			ProductID: uintPtr(7), Name: "Cola", Price: decimal.RequireFromString("4.00"), Quantity: 1,
		})
		require.NoError(t, err)

		cart, second, err := cartService.AddItem(user.ID, AddItemInput{
			ProductID: uintPtr(7), Name: "Cola Zero", Price: decimal.RequireFromString("3.50"), Quantity: 2,
		})
		require.NoError(t, err)

		require.Len(t, cart.Items, 1)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 3, cart.Items[0].Quantity)
		assert.Equal(t, "3.50", cart.Items[0].Price.StringFixed(2))
		assert.Equal(t, "Cola Zero", cart.Items[0].Name)
	})

	t.Run("Items without product merge by name", func(t *testing.T) {
		cartService, user, _ := setupCartServiceTest(t)

		_, _, err := cartService.AddItem(user.ID, AddItemInput{Name: "Special", Price: decimal.NewFromInt(5), Quantity: 1})
		require.NoError(t, err)
		_, _, err = cartService.AddItem(user.ID, AddItemInput{Name: "Special", Price: decimal.NewFromInt(5), Quantity: 1})
		require.NoError(t, err)
		cart, _, err := cartService.AddItem(user.ID, AddItemInput{Name: "Other", Price: decimal.NewFromInt(5), Quantity: 1})
		require.NoError(t, err)

		require.Len(t, cart.Items, 2)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, 1, cart.Items[1].Quantity)
	})

	t.Run("Different products stay separate", func(t *testing.T) {
		cartService, user, _ := setupCartServiceTest(t)

		_, _, err := cartService.AddItem(user.ID, AddItemInput{ProductID: uintPtr(1), Name: "Cola", Price: decimal.NewFromInt(2), Quantity: 1})
		require.NoError(t, err)
		cart, _, err := cartService.AddItem(user.ID, AddItemInput{ProductID: uintPtr(2), Name: "Cola", Price: decimal.NewFromInt(2), Quantity: 1})
		require.NoError(t, err)

		assert.Len(t, cart.Items, 2)
	})

	t.Run("Price is rounded to cents", func(t *testing.T) {
		cartService, user, _ := setupCartServiceTest(t)

		_, item, err := cartService.AddItem(user.ID, AddItemInput{Name: "Fries", Price: decimal.RequireFromString("2.345"), Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, "2.35", item.Price.StringFixed(2))
	})

	t.Run("Invalid input", func(t *testing.T) {
		cartService, user, testDB := setupCartServiceTest(t)

		_, _, err := cartService.AddItem(user.ID, AddItemInput{
			Name:     "  ",
			Price:    decimal.NewFromInt(-1),
			Quantity: 0,
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "name")
		assert.Contains(t, verr.Fields, "price")
		assert.Contains(t, verr.Fields, "quantity")

		var count int64
		testDB.Model(&model.CartItem{}).Count(&count)
		assert.Zero(t, count)
	})
}

func TestCartService_AddItem_QuantityLimit(t *testing.T) {
	t.Run("Single add above limit", func(t *testing.T) {
		cartService, user, testDB := setupCartServiceTest(t)

		_, _, err := cartService.AddItem(user.ID, AddItemInput{
			ProductID: uintPtr(7), Name: "Cola", Price: decimal.RequireFromString("2.00"), Quantity: math.MaxInt64,
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "quantity")

		var count int64
		testDB.Model(&model.CartItem{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("Merge past limit keeps stored quantity", func(t *testing.T) {
		cartService, user, _ := setupCartServiceTest(t)

		_, _, err := cartService.AddItem(user.ID, AddItemInput{
			ProductID: uintPtr(7), Name: "Cola", Price: decimal.RequireFromString("2.00"), Quantity: MaxItemQuantity,
		})
		require.NoError(t, err)

		_, _, err = cartService.AddItem(user.ID, AddItemInput{
			ProductID: uintPtr(7), Name: "Cola", Price: decimal.RequireFromString("2.00"), Quantity: 1,
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "quantity")

		cart, err := cartService.GetCart(user.ID)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, MaxItemQuantity, cart.Items[0].Quantity)
	})

	t.Run("Merge up to limit", func(t *testing.T) {
		cartService, user, _ := setupCartServiceTest(t)

		_, _, err := cartService.AddItem(user.ID, AddItemInput{
			Name: "Fries", Price: decimal.RequireFromString("1.00"), Quantity: MaxItemQuantity - 1,
		})
		require.NoError(t, err)
		_, item, err := cartService.AddItem(user.ID, AddItemInput{
			Name: "Fries", Price: decimal.RequireFromString("1.00"), Quantity: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, MaxItemQuantity, item.Quantity)
	})
}

func TestCartService_RemoveItem(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		cartService, user, _ := setupCartServiceTest(t)

		_, item, err := cartService.AddItem(user.ID, AddItemInput{Name: "Burger", Price: decimal.NewFromInt(8), Quantity: 1})
		require.NoError(t, err)

		require.NoError(t, cartService.RemoveItem(user.ID, item.ID))

		cart, err := cartService.GetCart(user.ID)
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("Not found", func(t *testing.T) {
		cartService, user, _ := setupCartServiceTest(t)

		err := cartService.RemoveItem(user.ID, 999)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})

	t.Run("Item of another user", func(t *testing.T) {
		cartService, owner, testDB := setupCartServiceTest(t)
		intruder := createTestUser(t, testDB, "mallory")

		_, item, err := cartService.AddItem(owner.ID, AddItemInput{Name: "Burger", Price: decimal.NewFromInt(8), Quantity: 1})
		require.NoError(t, err)

		err = cartService.RemoveItem(intruder.ID, item.ID)
		assert.ErrorIs(t, err, ErrCartItemForbidden)

		cart, err := cartService.GetCart(owner.ID)
		require.NoError(t, err)
		assert.Len(t, cart.Items, 1)
	})

	t.Run("Deletes under the cart lock", func(t *testing.T) {
		cartService, user, testDB := setupCartServiceTest(t)

		_, item, err := cartService.AddItem(user.ID, AddItemInput{Name: "Burger", Price: decimal.NewFromInt(8), Quantity: 1})
		require.NoError(t, err)

		var events []string
		err = testDB.Callback().Query().Before("gorm:query").Register("test:record_cart_lock", func(tx *gorm.DB) {
			if _, locked := tx.Statement.Clauses["FOR"]; locked && tx.Statement.Table == "carts" {
				events = append(events, "lock")
			}
		})
		require.NoError(t, err)
		err = testDB.Callback().Delete().Before("gorm:delete").Register("test:record_item_delete", func(tx *gorm.DB) {
			if tx.Statement.Table == "cart_items" {
				_, inTx := tx.Statement.ConnPool.(gorm.TxCommitter)
				events = append(events, fmt.Sprintf("delete in tx=%t", inTx))
			}
		})
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = testDB.Callback().Query().Remove("test:record_cart_lock")
			_ = testDB.Callback().Delete().Remove("test:record_item_delete")
		})

		require.NoError(t, cartService.RemoveItem(user.ID, item.ID))
		assert.Equal(t, []string{"lock", "delete in tx=true"}, events)
	})

	t.Run("User without cart", func(t *testing.T) {
		cartService, owner, testDB := setupCartServiceTest(t)
		stranger := createTestUser(t, testDB, "stranger")

		_, item, err := cartService.AddItem(owner.ID, AddItemInput{Name: "Burger", Price: decimal.NewFromInt(8), Quantity: 1})
		require.NoError(t, err)

		assert.ErrorIs(t, cartService.RemoveItem(stranger.ID, item.ID), ErrCartItemForbidden)
		assert.ErrorIs(t, cartService.RemoveItem(stranger.ID, item.ID+100), ErrCartItemNotFound)
	})
}

func TestCartService_SetTransport(t *testing.T) {
	cartService, user, _ := setupCartServiceTest(t)

	cart, err := cartService.SetTransport(user.ID, "car")
	require.NoError(t, err)
	require.NotNil(t, cart.Transport)
	assert.Equal(t, model.TransportCar, *cart.Transport)

	cart, err = cartService.SetTransport(user.ID, "bike")
	require.NoError(t, err)
	assert.Equal(t, model.TransportBike, *cart.Transport)

	_, err = cartService.SetTransport(user.ID, "rocket")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "transport")

	cart, err = cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TransportBike, *cart.Transport)
}
