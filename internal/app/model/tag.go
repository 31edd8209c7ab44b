package model

import (
	"time"

	"github.com/ikkim/digimart-backend/pkg/util"
	"gorm.io/gorm"
)

// Tag is a free-text label shared by any number of products.
// Titles are unique; tags are created on first use and never deleted.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"title"`
	Slug      string    `gorm:"type:varchar(120);index" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Products []Product `gorm:"many2many:product_tags;" json:"products,omitempty"`
}

func (Tag) TableName() string {
	return "tags"
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = util.Slugify(t.Title)
	}
	return nil
}
