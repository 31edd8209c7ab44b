package model

import "time"

// SellerAccount links a user to the product listings they own.
// Only active accounts may list, edit or sell products.
type SellerAccount struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Active    bool      `gorm:"default:true;not null" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Products []Product `gorm:"foreignKey:SellerID" json:"-"`
}

func (SellerAccount) TableName() string {
	return "seller_accounts"
}
