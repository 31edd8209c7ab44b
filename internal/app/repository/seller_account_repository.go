package repository

import (
	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/pkg/logger"
	"gorm.io/gorm"
)

type SellerAccountRepository interface {
	Create(account *model.SellerAccount) error
	FindByID(id uint) (*model.SellerAccount, error)
	FindByUserID(userID uint) (*model.SellerAccount, error)
	Update(account *model.SellerAccount) error
}

type sellerAccountRepository struct {
	db *gorm.DB
}

func NewSellerAccountRepository(db *gorm.DB) SellerAccountRepository {
	return &sellerAccountRepository{db: db}
}

func (r *sellerAccountRepository) Create(account *model.SellerAccount) error {
	logger.Debug("Creating seller account in database", map[string]interface{}{
		"user_id": account.UserID,
	})

	if err := r.db.Omit("User").Create(account).Error; err != nil {
		logger.Error("Failed to create seller account in database", err, map[string]interface{}{
			"user_id": account.UserID,
		})
		return err
	}

	logger.Debug("Seller account created in database", map[string]interface{}{
		"seller_account_id": account.ID,
		"user_id":           account.UserID,
	})
	return nil
}

func (r *sellerAccountRepository) FindByID(id uint) (*model.SellerAccount, error) {
	var account model.SellerAccount
	if err := r.db.First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByUserID returns the user's seller account whether or not it is active.
func (r *sellerAccountRepository) FindByUserID(userID uint) (*model.SellerAccount, error) {
	var account model.SellerAccount
	if err := r.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *sellerAccountRepository) Update(account *model.SellerAccount) error {
	if err := r.db.Model(account).Select("active").Updates(map[string]interface{}{
		"active": account.Active,
	}).Error; err != nil {
		logger.Error("Failed to update seller account in database", err, map[string]interface{}{
			"seller_account_id": account.ID,
		})
		return err
	}
	return nil
}
