package storage

import (
	"errors"
	"fmt"

	"github.com/lurighe2000/laburen-desafio/internal/models"
)

var (
	// ErrProductNotFound is returned when a product id does not exist
	ErrProductNotFound = errors.New("product not found")

	// ErrCartNotFound is returned when a cart id does not exist
	ErrCartNotFound = errors.New("cart not found")
)

// ProductsNotFoundError reports which product ids of a cart mutation are unknown
type ProductsNotFoundError struct {
	IDs []uint
}

func (e *ProductsNotFoundError) Error() string {
	return fmt.Sprintf("products not found: %v", e.IDs)
}

// Store defines the interface for catalog and cart storage operations
type Store interface {
	// Product operations
	ListProducts(q string) ([]*models.Product, error)
	GetProduct(id uint) (*models.Product, error)
	CreateProducts(products []*models.Product) error
	CountProducts() (int64, error)

	// Cart operations
	CreateCart(items []models.CartItemChange) (*models.Cart, error)
	PatchCart(cartID uint, items []models.CartItemChange) (*models.Cart, error)
	CountCarts() (int64, error)
}
