package models

import "time"

// Cart is a shopping cart owned by one conversation
type Cart struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}

// CartItem is one product line inside a cart, with the full product embedded
// so API responses carry prices and stock without extra lookups
type CartItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	CartID    uint    `json:"-" gorm:"index;uniqueIndex:uq_cart_product"`
	ProductID uint    `json:"-" gorm:"uniqueIndex:uq_cart_product"`
	Product   Product `json:"product"`
	Qty       int     `json:"qty" gorm:"not null"`
}

// CartItemChange is one requested line mutation.
// On PATCH: qty = 0 deletes the line, qty > 0 replaces or inserts it.
// On POST: items with qty <= 0 are dropped.
type CartItemChange struct {
	ProductID uint `json:"product_id"`
	Qty       int  `json:"qty"`
}

// CartCreateRequest is the POST /carts payload
type CartCreateRequest struct {
	Items []CartItemChange `json:"items"`
}

// CartPatchRequest is the PATCH /carts/:id payload
type CartPatchRequest struct {
	Items []CartItemChange `json:"items"`
}
