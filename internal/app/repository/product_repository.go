package repository

import (
	"strings"

	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductFilter struct {
	Search   string
	SellerID *uint
	Limit    int
	Offset   int
}

type ProductRepository interface {
	Create(product *model.Product) error
	CreateWithTags(product *model.Product, tagTitles []string) error
	Update(product *model.Product) error
	UpdateWithTags(product *model.Product, tagTitles []string) error
	UpdateMedia(id uint, media string) error
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindAll() ([]model.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"title":     product.Title,
		"seller_id": product.SellerID,
	})

	if err := r.db.Omit(clause.Associations).Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"title":     product.Title,
			"seller_id": product.SellerID,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return nil
}

// CreateWithTags inserts the product and attaches its tags, creating missing
// tags, in a single transaction.
func (r *productRepository) CreateWithTags(product *model.Product, tagTitles []string) error {
	logger.Debug("Creating product with tags in database", map[string]interface{}{
		"title":     product.Title,
		"seller_id": product.SellerID,
		"tags":      tagTitles,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return err
		}

		tags, err := findOrCreateTags(tx, tagTitles)
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(product).Association("Tags").Append(&tags); err != nil {
				return err
			}
		}
		product.Tags = tags
		return nil
	})
	if err != nil {
		logger.Error("Failed to create product with tags", err, map[string]interface{}{
			"title":     product.Title,
			"seller_id": product.SellerID,
		})
		return err
	}

	logger.Debug("Product created with tags", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
		"tag_count":  len(product.Tags),
	})
	return nil
}

// Update saves the product's own columns; tags are left untouched.
func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Omit(clause.Associations).Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

// UpdateWithTags saves the product and replaces its tag set in a single
// transaction. Detached tags are kept.
func (r *productRepository) UpdateWithTags(product *model.Product, tagTitles []string) error {
	logger.Debug("Updating product with tags in database", map[string]interface{}{
		"product_id": product.ID,
		"tags":       tagTitles,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(product).Error; err != nil {
			return err
		}

		tags, err := findOrCreateTags(tx, tagTitles)
		if err != nil {
			return err
		}

		association := tx.Model(product).Association("Tags")
		if len(tags) == 0 {
			if err := association.Clear(); err != nil {
				return err
			}
		} else if err := association.Replace(&tags); err != nil {
			return err
		}
		product.Tags = tags
		return nil
	})
	if err != nil {
		logger.Error("Failed to update product with tags", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) UpdateMedia(id uint, media string) error {
	if err := r.db.Model(&model.Product{}).Where("id = ?", id).Update("media", media).Error; err != nil {
		logger.Error("Failed to update product media", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Tags").First(&product, id).Error; err != nil {
		logger.Debug("Product not found by ID", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Tags").Where("slug = ?", slug).First(&product).Error; err != nil {
		logger.Debug("Product not found by slug", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) applyFilter(query *gorm.DB, filter ProductFilter) *gorm.DB {
	if filter.SellerID != nil {
		query = query.Where("products.seller_id = ?", *filter.SellerID)
	}
	if filter.Search != "" {
		like := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		query = query.Where(
			`LOWER(products.title) LIKE ? ESCAPE '\' OR LOWER(products.description) LIKE ? ESCAPE '\'`,
			like, like,
		)
	}
	return query
}

// FindWithFilter returns one page of products plus the total match count.
// Searches are ordered by title, plain listings newest first.
func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"search":    filter.Search,
		"seller_id": filter.SellerID,
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})

	var total int64
	if err := r.applyFilter(r.db.Model(&model.Product{}), filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count products", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	query := r.applyFilter(r.db.Model(&model.Product{}).Preload("Tags"), filter)
	if filter.Search != "" {
		query = query.Order("products.title ASC").Order("products.id ASC")
	} else {
		query = query.Order("products.created_at DESC").Order("products.id DESC")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	products, _, err := r.FindWithFilter(ProductFilter{})
	return products, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
