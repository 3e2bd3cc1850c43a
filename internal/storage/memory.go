package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lurighe2000/laburen-desafio/internal/models"
)

// maxListResults caps product listings
const maxListResults = 200

// MemoryStore holds all data in memory for local development and tests
type MemoryStore struct {
	products map[uint]*models.Product
	carts    map[uint]*models.Cart

	// Mutexes for thread safety
	productMu sync.RWMutex
	cartMu    sync.RWMutex

	// Counters for ID generation
	productCounter uint
	cartCounter    uint
	itemCounter    uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[uint]*models.Product),
		carts:    make(map[uint]*models.Cart),
	}
}

// Product operations

func (m *MemoryStore) ListProducts(q string) ([]*models.Product, error) {
	m.productMu.RLock()
	defer m.productMu.RUnlock()

	needle := strings.ToLower(q)
	matches := []*models.Product{}
	for _, p := range m.products {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		matches = append(matches, p)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	if len(matches) > maxListResults {
		matches = matches[:maxListResults]
	}
	return matches, nil
}

func (m *MemoryStore) GetProduct(id uint) (*models.Product, error) {
	m.productMu.RLock()
	defer m.productMu.RUnlock()

	product, exists := m.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (m *MemoryStore) CreateProducts(products []*models.Product) error {
	m.productMu.Lock()
	defer m.productMu.Unlock()

	for _, p := range products {
		if p.ID == 0 {
			m.productCounter++
			p.ID = m.productCounter
		} else if p.ID > m.productCounter {
			m.productCounter = p.ID
		}
		m.products[p.ID] = p
	}
	return nil
}

func (m *MemoryStore) CountProducts() (int64, error) {
	m.productMu.RLock()
	defer m.productMu.RUnlock()
	return int64(len(m.products)), nil
}

// Cart operations

func (m *MemoryStore) CreateCart(items []models.CartItemChange) (*models.Cart, error) {
	if missing := m.missingProducts(items); len(missing) > 0 {
		return nil, &ProductsNotFoundError{IDs: missing}
	}

	m.cartMu.Lock()
	defer m.cartMu.Unlock()

	m.cartCounter++
	cart := &models.Cart{ID: m.cartCounter, Items: []models.CartItem{}}

	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		cart.Items = append(cart.Items, m.newItem(cart.ID, it.ProductID, it.Qty))
	}

	m.carts[cart.ID] = cart
	return snapshotCart(cart), nil
}

func (m *MemoryStore) PatchCart(cartID uint, items []models.CartItemChange) (*models.Cart, error) {
	m.cartMu.Lock()
	defer m.cartMu.Unlock()

	cart, exists := m.carts[cartID]
	if !exists {
		return nil, ErrCartNotFound
	}

	// An empty change list is a no-op used to read current state
	if len(items) == 0 {
		return snapshotCart(cart), nil
	}

	if missing := m.missingProducts(items); len(missing) > 0 {
		return nil, &ProductsNotFoundError{IDs: missing}
	}

	for _, change := range items {
		if change.Qty < 0 {
			return nil, fmt.Errorf("invalid qty %d for product %d", change.Qty, change.ProductID)
		}

		idx := -1
		for i := range cart.Items {
			if cart.Items[i].ProductID == change.ProductID {
				idx = i
				break
			}
		}

		switch {
		case change.Qty == 0:
			if idx >= 0 {
				cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
			}
		case idx >= 0:
			cart.Items[idx].Qty = change.Qty
		default:
			cart.Items = append(cart.Items, m.newItem(cart.ID, change.ProductID, change.Qty))
		}
	}

	return snapshotCart(cart), nil
}

func (m *MemoryStore) CountCarts() (int64, error) {
	m.cartMu.RLock()
	defer m.cartMu.RUnlock()
	return int64(len(m.carts)), nil
}

func (m *MemoryStore) newItem(cartID, productID uint, qty int) models.CartItem {
	m.itemCounter++
	m.productMu.RLock()
	product := *m.products[productID]
	m.productMu.RUnlock()
	return models.CartItem{
		ID:        m.itemCounter,
		CartID:    cartID,
		ProductID: productID,
		Product:   product,
		Qty:       qty,
	}
}

// missingProducts returns the referenced product ids that do not exist, ascending
func (m *MemoryStore) missingProducts(items []models.CartItemChange) []uint {
	m.productMu.RLock()
	defer m.productMu.RUnlock()

	seen := map[uint]bool{}
	missing := []uint{}
	for _, it := range items {
		if _, ok := m.products[it.ProductID]; !ok && !seen[it.ProductID] {
			seen[it.ProductID] = true
			missing = append(missing, it.ProductID)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// snapshotCart copies a cart so callers never share the stored slice
func snapshotCart(cart *models.Cart) *models.Cart {
	out := *cart
	out.Items = make([]models.CartItem, len(cart.Items))
	copy(out.Items, cart.Items)
	return &out
}
