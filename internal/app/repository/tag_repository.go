package repository

import (
	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/pkg/logger"
	"gorm.io/gorm"
)

type TagRepository interface {
	FindAll() ([]model.Tag, error)
	FindByID(id uint) (*model.Tag, error)
	FindByIDWithProducts(id uint) (*model.Tag, error)
	FindOrCreate(title string) (*model.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) FindAll() ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.Order("title ASC").Find(&tags).Error; err != nil {
		logger.Error("Failed to find tags", err)
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) FindByID(id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByIDWithProducts(id uint) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.Preload("Products", func(db *gorm.DB) *gorm.DB {
		return db.Order("products.created_at DESC, products.id DESC")
	}).First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindOrCreate(title string) (*model.Tag, error) {
	return findOrCreateTag(r.db, title)
}

// findOrCreateTag looks a tag up by exact title and creates it when missing.
// It takes the caller's handle so product transactions can share it.
func findOrCreateTag(db *gorm.DB, title string) (*model.Tag, error) {
	tag := model.Tag{}
	result := db.Where(model.Tag{Title: title}).FirstOrCreate(&tag)
	if result.Error != nil {
		logger.Error("Failed to get or create tag", result.Error, map[string]interface{}{
			"title": title,
		})
		return nil, result.Error
	}

	if result.RowsAffected > 0 {
		logger.Debug("Tag created", map[string]interface{}{
			"tag_id": tag.ID,
			"title":  tag.Title,
		})
	}
	return &tag, nil
}

func findOrCreateTags(db *gorm.DB, titles []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(titles))
	for _, title := range titles {
		tag, err := findOrCreateTag(db, title)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}
