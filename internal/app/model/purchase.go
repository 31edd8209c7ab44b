package model

import "time"

// Purchase puts a product into a buyer's library and grants download access.
type Purchase struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_purchases_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_purchases_user_product;index" json:"product_id"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Purchase) TableName() string {
	return "purchases"
}
