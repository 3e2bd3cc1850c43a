package models

// Product represents a catalog entry available for sale
type Product struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"size:255;not null;index"`
	Description string  `json:"description" gorm:"type:text"`
	Price       float64 `json:"price" gorm:"type:numeric(12,2);not null"`
	Stock       int     `json:"stock" gorm:"not null;default:0"`
}
