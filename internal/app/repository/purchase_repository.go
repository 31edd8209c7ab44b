package repository

import (
	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/pkg/logger"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(purchase *model.Purchase) error
	Exists(userID, productID uint) (bool, error)
	FindByUser(userID uint) ([]model.Purchase, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(purchase *model.Purchase) error {
	logger.Debug("Creating purchase in database", map[string]interface{}{
		"user_id":    purchase.UserID,
		"product_id": purchase.ProductID,
	})

	if err := r.db.Omit("Product").Create(purchase).Error; err != nil {
		logger.Error("Failed to create purchase in database", err, map[string]interface{}{
			"user_id":    purchase.UserID,
			"product_id": purchase.ProductID,
		})
		return err
	}
	return nil
}

func (r *purchaseRepository) Exists(userID, productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Purchase{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByUser returns the user's library, most recent purchase first.
func (r *purchaseRepository) FindByUser(userID uint) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.db.Preload("Product").Preload("Product.Tags").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&purchases).Error
	if err != nil {
		logger.Error("Failed to find purchases", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return purchases, nil
}
