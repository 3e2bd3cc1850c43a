package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/lurighe2000/laburen-desafio/internal/storage"
)

// ProductHandler handles catalog read requests
type ProductHandler struct {
	store storage.Store
}

// NewProductHandler creates a new product handler
func NewProductHandler(store storage.Store) *ProductHandler {
	return &ProductHandler{store: store}
}

// ListProducts handles GET /products?q=
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.store.ListProducts(c.Query("q"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list products",
		})
	}
	return c.JSON(products)
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product id",
		})
	}

	product, err := h.store.GetProduct(uint(id))
	if errors.Is(err, storage.ErrProductNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get product",
		})
	}

	return c.JSON(product)
}
