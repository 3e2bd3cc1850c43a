package storage_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lurighe2000/laburen-desafio/internal/models"
	"github.com/lurighe2000/laburen-desafio/internal/storage"
)

func seededStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	err := store.CreateProducts([]*models.Product{
		{Name: "Media negra M", Description: "Cómoda", Price: 1000, Stock: 50},
		{Name: "Media blanca L", Description: "Clásica", Price: 1100, Stock: 30},
		{Name: "Zoquete azul S", Description: "Deportivo", Price: 900, Stock: 20},
	})
	require.NoError(t, err)
	return store
}

func TestMemoryStoreListProducts(t *testing.T) {
	store := seededStore(t)

	all, err := store.ListProducts("")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint(1), all[0].ID)
	assert.Equal(t, uint(3), all[2].ID)

	// Case-insensitive substring match over name and description
	medias, err := store.ListProducts("MEDIA")
	require.NoError(t, err)
	assert.Len(t, medias, 2)

	sporty, err := store.ListProducts("deportivo")
	require.NoError(t, err)
	require.Len(t, sporty, 1)
	assert.Equal(t, "Zoquete azul S", sporty[0].Name)

	none, err := store.ListProducts("paraguas")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStoreListProductsCap(t *testing.T) {
	store := storage.NewMemoryStore()
	products := []*models.Product{}
	for i := 0; i < 205; i++ {
		products = append(products, &models.Product{Name: fmt.Sprintf("P%03d", i), Price: 1, Stock: 1})
	}
	require.NoError(t, store.CreateProducts(products))

	out, err := store.ListProducts("")
	require.NoError(t, err)
	assert.Len(t, out, 200)
	assert.Equal(t, uint(1), out[0].ID)
	assert.Equal(t, uint(200), out[199].ID)
}

func TestMemoryStoreGetProduct(t *testing.T) {
	store := seededStore(t)

	p, err := store.GetProduct(2)
	require.NoError(t, err)
	assert.Equal(t, "Media blanca L", p.Name)

	_, err = store.GetProduct(999)
	assert.ErrorIs(t, err, storage.ErrProductNotFound)
}

func TestMemoryStoreCreateCartDropsNonPositiveQty(t *testing.T) {
	store := seededStore(t)

	cart, err := store.CreateCart([]models.CartItemChange{
		{ProductID: 1, Qty: 2},
		{ProductID: 2, Qty: 0},
		{ProductID: 3, Qty: -1},
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(1), cart.Items[0].ProductID)
	assert.Equal(t, "Media negra M", cart.Items[0].Product.Name)
}

func TestMemoryStoreCreateCartEmptyAllowed(t *testing.T) {
	store := seededStore(t)

	cart, err := store.CreateCart(nil)
	require.NoError(t, err)
	assert.NotZero(t, cart.ID)
	assert.Empty(t, cart.Items)
}

func TestMemoryStoreCreateCartUnknownProducts(t *testing.T) {
	store := seededStore(t)

	_, err := store.CreateCart([]models.CartItemChange{
		{ProductID: 9, Qty: 1},
		{ProductID: 7, Qty: 1},
	})

	var missing *storage.ProductsNotFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []uint{7, 9}, missing.IDs)
}

func TestMemoryStorePatchCartSemantics(t *testing.T) {
	store := seededStore(t)
	cart, err := store.CreateCart([]models.CartItemChange{{ProductID: 1, Qty: 2}})
	require.NoError(t, err)

	// Insert when absent
	cart, err = store.PatchCart(cart.ID, []models.CartItemChange{{ProductID: 2, Qty: 1}})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	// Replace, not accumulate, when present
	cart, err = store.PatchCart(cart.ID, []models.CartItemChange{{ProductID: 1, Qty: 5}})
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Qty)

	// Zero deletes the line
	cart, err = store.PatchCart(cart.ID, []models.CartItemChange{{ProductID: 1, Qty: 0}})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(2), cart.Items[0].ProductID)

	// Deleting an absent line is a no-op
	cart, err = store.PatchCart(cart.ID, []models.CartItemChange{{ProductID: 3, Qty: 0}})
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestMemoryStorePatchCartEmptyIsNoOpRead(t *testing.T) {
	store := seededStore(t)
	cart, err := store.CreateCart([]models.CartItemChange{{ProductID: 1, Qty: 2}})
	require.NoError(t, err)

	again, err := store.PatchCart(cart.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, cart.Items, again.Items)
}

func TestMemoryStorePatchCartErrors(t *testing.T) {
	store := seededStore(t)

	_, err := store.PatchCart(999, nil)
	assert.ErrorIs(t, err, storage.ErrCartNotFound)

	cart, err := store.CreateCart(nil)
	require.NoError(t, err)

	_, err = store.PatchCart(cart.ID, []models.CartItemChange{{ProductID: 8, Qty: 1}})
	var missing *storage.ProductsNotFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []uint{8}, missing.IDs)

	_, err = store.PatchCart(cart.ID, []models.CartItemChange{{ProductID: 1, Qty: -2}})
	assert.Error(t, err)
}

func TestMemoryStoreCounts(t *testing.T) {
	store := seededStore(t)

	products, err := store.CountProducts()
	require.NoError(t, err)
	assert.Equal(t, int64(3), products)

	carts, err := store.CountCarts()
	require.NoError(t, err)
	assert.Zero(t, carts)

	_, err = store.CreateCart(nil)
	require.NoError(t, err)
	carts, _ = store.CountCarts()
	assert.Equal(t, int64(1), carts)
}
