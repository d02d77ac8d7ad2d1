package repository

import (
	"testing"

	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/foodiehub/foodiehub-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartRepository, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	user := &model.User{Username: "cart-user", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(user).Error)

	return testDB, NewCartRepository(testDB), user
}

func uintPtr(v uint) *uint { return &v }

func TestCartRepository_FindOrCreateByUserID(t *testing.T) {
	testDB, repo, user := setupCartTest(t)

	cart, err := repo.FindOrCreateByUserID(user.ID)
	require.NoError(t, err)
	assert.NotZero(t, cart.ID)
	assert.Nil(t, cart.Transport)
	assert.Empty(t, cart.Items)

	again, err := repo.FindOrCreateByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	var count int64
	testDB.Model(&model.Cart{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCartRepository_Items(t *testing.T) {
	_, repo, user := setupCartTest(t)

	cart, err := repo.FindOrCreateByUserID(user.ID)
	require.NoError(t, err)

	burger := &model.CartItem{CartID: cart.ID, ProductID: uintPtr(7), Name: "Burger", Price: decimal.RequireFromString("3.50"), Quantity: 2}
	custom := &model.CartItem{CartID: cart.ID, Name: "Custom", Price: decimal.RequireFromString("5.00"), Quantity: 1}
	require.NoError(t, repo.CreateItem(burger))
	require.NoError(t, repo.CreateItem(custom))

	items, err := repo.FindItems(cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, burger.ID, items[0].ID)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("3.5")))

	t.Run("match by product", func(t *testing.T) {
		found, err := repo.FindMatchingItem(cart.ID, uintPtr(7), "renamed")
		require.NoError(t, err)
		assert.Equal(t, burger.ID, found.ID)
	})

	t.Run("match by name without product", func(t *testing.T) {
		found, err := repo.FindMatchingItem(cart.ID, nil, "Custom")
		require.NoError(t, err)
		assert.Equal(t, custom.ID, found.ID)

		_, err = repo.FindMatchingItem(cart.ID, nil, "Burger")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, repo.ClearItems(cart.ID))
		items, err := repo.FindItems(cart.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestCartRepository_SetTransport(t *testing.T) {
	_, repo, user := setupCartTest(t)

	cart, err := repo.FindOrCreateByUserID(user.ID)
	require.NoError(t, err)

	car := model.TransportCar
	require.NoError(t, repo.SetTransport(cart.ID, &car))

	reloaded, err := repo.FindByID(cart.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Transport)
	assert.Equal(t, model.TransportCar, *reloaded.Transport)

	require.NoError(t, repo.SetTransport(cart.ID, nil))
	reloaded, err = repo.FindByID(cart.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Transport)
}

func TestCartRepository_LockByUserIDInTransaction(t *testing.T) {
	testDB, repo, user := setupCartTest(t)

	_, err := repo.FindOrCreateByUserID(user.ID)
	require.NoError(t, err)

	err = testDB.Transaction(func(tx *gorm.DB) error {
		locked, err := repo.WithTx(tx).LockByUserID(user.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, user.ID, locked.UserID)
		return nil
	})
	require.NoError(t, err)

	err = testDB.Transaction(func(tx *gorm.DB) error {
		_, err := repo.WithTx(tx).LockByUserID(user.ID + 100)
		return err
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_DeleteItem(t *testing.T) {
	_, repo, user := setupCartTest(t)

	cart, err := repo.FindOrCreateByUserID(user.ID)
	require.NoError(t, err)

	item := &model.CartItem{CartID: cart.ID, Name: "Fries", Price: decimal.RequireFromString("2.00"), Quantity: 1}
	require.NoError(t, repo.CreateItem(item))
	require.NoError(t, repo.DeleteItem(item.ID))

	_, err = repo.FindItemByID(item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
