package storage

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/lurighe2000/laburen-desafio/internal/models"
)

// DatabaseStore persists catalog and carts in PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a new database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Product operations

func (s *DatabaseStore) ListProducts(q string) ([]*models.Product, error) {
	query := s.db.Model(&models.Product{})
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}

	var products []*models.Product
	if err := query.Order("id ASC").Limit(maxListResults).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *DatabaseStore) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *DatabaseStore) CreateProducts(products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return s.db.Create(products).Error
}

func (s *DatabaseStore) CountProducts() (int64, error) {
	var count int64
	err := s.db.Model(&models.Product{}).Count(&count).Error
	return count, err
}

// Cart operations

func (s *DatabaseStore) CreateCart(items []models.CartItemChange) (*models.Cart, error) {
	if missing, err := s.missingProducts(items); err != nil {
		return nil, err
	} else if len(missing) > 0 {
		return nil, &ProductsNotFoundError{IDs: missing}
	}

	cart := &models.Cart{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cart).Error; err != nil {
			return err
		}
		for _, it := range items {
			if it.Qty <= 0 {
				continue
			}
			item := models.CartItem{CartID: cart.ID, ProductID: it.ProductID, Qty: it.Qty}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadCart(cart.ID)
}

func (s *DatabaseStore) PatchCart(cartID uint, items []models.CartItemChange) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.First(&cart, cartID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}

	// An empty change list is a no-op used to read current state
	if len(items) == 0 {
		return s.loadCart(cartID)
	}

	if missing, err := s.missingProducts(items); err != nil {
		return nil, err
	} else if len(missing) > 0 {
		return nil, &ProductsNotFoundError{IDs: missing}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, change := range items {
			if change.Qty < 0 {
				return fmt.Errorf("invalid qty %d for product %d", change.Qty, change.ProductID)
			}

			if change.Qty == 0 {
				err := tx.Where("cart_id = ? AND product_id = ?", cartID, change.ProductID).
					Delete(&models.CartItem{}).Error
				if err != nil {
					return err
				}
				continue
			}

			res := tx.Model(&models.CartItem{}).
				Where("cart_id = ? AND product_id = ?", cartID, change.ProductID).
				Update("qty", change.Qty)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				item := models.CartItem{CartID: cartID, ProductID: change.ProductID, Qty: change.Qty}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadCart(cartID)
}

func (s *DatabaseStore) CountCarts() (int64, error) {
	var count int64
	err := s.db.Model(&models.Cart{}).Count(&count).Error
	return count, err
}

func (s *DatabaseStore) loadCart(cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id ASC") }).
		Preload("Items.Product").
		First(&cart, cartID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// missingProducts returns the referenced product ids that do not exist, ascending
func (s *DatabaseStore) missingProducts(items []models.CartItemChange) ([]uint, error) {
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	var existing []uint
	err := s.db.Model(&models.Product{}).Where("id IN ?", ids).Pluck("id", &existing).Error
	if err != nil {
		return nil, err
	}

	found := map[uint]bool{}
	for _, id := range existing {
		found[id] = true
	}

	seen := map[uint]bool{}
	missing := []uint{}
	for _, id := range ids {
		if !found[id] && !seen[id] {
			seen[id] = true
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing, nil
}
