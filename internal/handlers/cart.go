package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/lurighe2000/laburen-desafio/internal/models"
	"github.com/lurighe2000/laburen-desafio/internal/storage"
)

// CartHandler handles cart mutations
type CartHandler struct {
	store storage.Store
}

// NewCartHandler creates a new cart handler
func NewCartHandler(store storage.Store) *CartHandler {
	return &CartHandler{store: store}
}

// CreateCart handles POST /carts
func (h *CartHandler) CreateCart(c *fiber.Ctx) error {
	var payload models.CartCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if msg, ok := validQuantities(payload.Items); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	cart, err := h.store.CreateCart(payload.Items)
	if err != nil {
		return cartError(c, err, "Failed to create cart")
	}

	return c.Status(fiber.StatusCreated).JSON(cart)
}

// PatchCart handles PATCH /carts/:id
func (h *CartHandler) PatchCart(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cart id",
		})
	}

	var payload models.CartPatchRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if msg, ok := validQuantities(payload.Items); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	cart, err := h.store.PatchCart(uint(id), payload.Items)
	if err != nil {
		return cartError(c, err, "Failed to patch cart")
	}

	return c.JSON(cart)
}

// validQuantities rejects negative quantities; qty 0 stays valid because
// PATCH uses it for deletion
func validQuantities(items []models.CartItemChange) (string, bool) {
	for _, it := range items {
		if it.Qty < 0 {
			return fmt.Sprintf("Qty must be >= 0 for product %d", it.ProductID), false
		}
	}
	return "", true
}

func cartError(c *fiber.Ctx, err error, fallback string) error {
	var missing *storage.ProductsNotFoundError
	if errors.As(err, &missing) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("Products not found: %v", missing.IDs),
		})
	}
	if errors.Is(err, storage.ErrCartNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Cart not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback,
	})
}
