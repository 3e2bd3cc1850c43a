package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lurighe2000/laburen-desafio/internal/handlers"
	"github.com/lurighe2000/laburen-desafio/internal/models"
	"github.com/lurighe2000/laburen-desafio/internal/storage"
)

func newTestAPI(t *testing.T) (*fiber.App, storage.Store) {
	t.Helper()

	store := storage.NewMemoryStore()
	err := store.CreateProducts([]*models.Product{
		{Name: "Media negra M", Description: "Cómoda", Price: 1000, Stock: 50},
		{Name: "Media blanca L", Description: "Clásica", Price: 1100, Stock: 30},
		{Name: "Zoquete azul S", Description: "Deportivo", Price: 900, Stock: 20},
	})
	require.NoError(t, err)

	app := fiber.New()
	productHandler := handlers.NewProductHandler(store)
	cartHandler := handlers.NewCartHandler(store)
	app.Get("/products", productHandler.ListProducts)
	app.Get("/products/:id", productHandler.GetProduct)
	app.Post("/carts", cartHandler.CreateCart)
	app.Patch("/carts/:id", cartHandler.PatchCart)

	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, payload
}

func TestListProductsEndpoint(t *testing.T) {
	app, _ := newTestAPI(t)

	resp, body := doJSON(t, app, http.MethodGet, "/products?q=media", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var products []models.Product
	require.NoError(t, json.Unmarshal(body, &products))
	require.Len(t, products, 2)
	assert.Equal(t, uint(1), products[0].ID)
	assert.Equal(t, uint(2), products[1].ID)
}

func TestGetProductEndpoint(t *testing.T) {
	app, _ := newTestAPI(t)

	resp, body := doJSON(t, app, http.MethodGet, "/products/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var product models.Product
	require.NoError(t, json.Unmarshal(body, &product))
	assert.Equal(t, "Media negra M", product.Name)

	resp, _ = doJSON(t, app, http.MethodGet, "/products/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateCartEndpoint(t *testing.T) {
	app, _ := newTestAPI(t)

	resp, body := doJSON(t, app, http.MethodPost, "/carts", models.CartCreateRequest{
		Items: []models.CartItemChange{{ProductID: 1, Qty: 2}},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(body, &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Media negra M", cart.Items[0].Product.Name)
	assert.Equal(t, 2, cart.Items[0].Qty)
}

func TestCreateCartUnknownProducts(t *testing.T) {
	app, _ := newTestAPI(t)

	resp, body := doJSON(t, app, http.MethodPost, "/carts", models.CartCreateRequest{
		Items: []models.CartItemChange{{ProductID: 9, Qty: 1}},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "Products not found")
}

func TestCreateCartRejectsNegativeQty(t *testing.T) {
	app, _ := newTestAPI(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/carts", models.CartCreateRequest{
		Items: []models.CartItemChange{{ProductID: 1, Qty: -2}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPatchCartEndpoint(t *testing.T) {
	app, store := newTestAPI(t)
	cart, err := store.CreateCart([]models.CartItemChange{{ProductID: 1, Qty: 1}})
	require.NoError(t, err)

	resp, body := doJSON(t, app, http.MethodPatch, "/carts/1", models.CartPatchRequest{
		Items: []models.CartItemChange{{ProductID: 1, Qty: 0}, {ProductID: 3, Qty: 4}},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Cart
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, cart.ID, updated.ID)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Zoquete azul S", updated.Items[0].Product.Name)
	assert.Equal(t, 4, updated.Items[0].Qty)
}

func TestPatchCartUnknownCart(t *testing.T) {
	app, _ := newTestAPI(t)

	resp, body := doJSON(t, app, http.MethodPatch, "/carts/999", models.CartPatchRequest{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "Cart not found")
}
