package model

import (
	"fmt"
	"path"
	"time"

	"github.com/ikkim/digimart-backend/pkg/util"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	SellerID    uint           `gorm:"not null;index" json:"seller_id"`
	Title       string         `gorm:"type:varchar(120);not null" json:"title"`
	Slug        string         `gorm:"type:varchar(160);uniqueIndex;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	SalePrice   *float64       `json:"sale_price,omitempty"`
	Media       string         `gorm:"type:varchar(255)" json:"-"` // protected storage key
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Seller *SellerAccount `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Tags   []Tag          `gorm:"many2many:product_tags;" json:"tags"`
}

func (Product) TableName() string {
	return "products"
}

// EffectivePrice is what a buyer pays: the sale price when one is set.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// HasMedia reports whether a downloadable file is attached.
func (p *Product) HasMedia() bool {
	return p.Media != ""
}

// MediaFilename is the file name offered to downloaders.
func (p *Product) MediaFilename() string {
	return path.Base(p.Media)
}

// TagTitles returns the titles of the loaded tags.
func (p *Product) TagTitles() []string {
	titles := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		titles = append(titles, tag.Title)
	}
	return titles
}

// BeforeCreate assigns a unique slug derived from the title.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.Slug != "" {
		return nil
	}

	baseSlug := util.Slugify(p.Title)
	switch {
	case baseSlug == "":
		baseSlug = "product"
	case util.IsDigits(baseSlug):
		// 숫자만으로 된 slug는 경로에서 id로 해석됨
		baseSlug = "product-" + baseSlug
	}

	slug := baseSlug
	for counter := 1; ; counter++ {
		var count int64
		if err := tx.Model(&Product{}).Unscoped().Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			break
		}
		slug = fmt.Sprintf("%s-%d", baseSlug, counter+1)
	}

	p.Slug = slug
	return nil
}
