package repository

import (
	"time"

	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagViewRepository interface {
	AddCount(userID, tagID uint) error
	FindByUser(userID uint) ([]model.TagView, error)
	TopTags(limit int) ([]model.TagViewTotal, error)
}

type tagViewRepository struct {
	db *gorm.DB
}

func NewTagViewRepository(db *gorm.DB) TagViewRepository {
	return &tagViewRepository{db: db}
}

// AddCount records one view of a tag by a user: the first view inserts the
// row with count 1, later views increment it in the same statement.
func (r *tagViewRepository) AddCount(userID, tagID uint) error {
	view := model.TagView{
		UserID:    userID,
		TagID:     tagID,
		ViewCount: 1,
	}

	err := r.db.Omit("Tag").Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "tag_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"view_count": gorm.Expr("tag_views.view_count + ?", 1),
			"updated_at": time.Now(),
		}),
	}).Create(&view).Error
	if err != nil {
		logger.Error("Failed to add tag view count", err, map[string]interface{}{
			"user_id": userID,
			"tag_id":  tagID,
		})
		return err
	}
	return nil
}

func (r *tagViewRepository) FindByUser(userID uint) ([]model.TagView, error) {
	var views []model.TagView
	err := r.db.Preload("Tag").
		Where("user_id = ?", userID).
		Order("view_count DESC, tag_id ASC").
		Find(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

// TopTags aggregates view counts across users, most viewed first.
func (r *tagViewRepository) TopTags(limit int) ([]model.TagViewTotal, error) {
	var totals []model.TagViewTotal
	query := r.db.Table("tag_views").
		Select("tags.id AS tag_id, tags.title AS title, tags.slug AS slug, SUM(tag_views.view_count) AS total_views").
		Joins("JOIN tags ON tags.id = tag_views.tag_id").
		Group("tags.id, tags.title, tags.slug").
		Order("total_views DESC, tags.title ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Scan(&totals).Error; err != nil {
		logger.Error("Failed to aggregate tag views", err)
		return nil, err
	}
	return totals, nil
}
