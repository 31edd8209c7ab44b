package service

import (
	"errors"

	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/internal/app/repository"
	"github.com/ikkim/digimart-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrSellerAccountRequired = errors.New("active seller account required")

type SellerService interface {
	// RequireActiveAccount resolves the caller's seller account and fails
	// with ErrSellerAccountRequired when it is missing or inactive.
	RequireActiveAccount(userID uint) (*model.SellerAccount, error)
	OpenAccount(userID uint) (*model.SellerAccount, bool, error)
	GetAccount(userID uint) (*model.SellerAccount, error)
}

type sellerService struct {
	sellerRepo repository.SellerAccountRepository
}

func NewSellerService(sellerRepo repository.SellerAccountRepository) SellerService {
	return &sellerService{sellerRepo: sellerRepo}
}

func (s *sellerService) RequireActiveAccount(userID uint) (*model.SellerAccount, error) {
	account, err := s.GetAccount(userID)
	if err != nil {
		return nil, err
	}
	if !account.Active {
		logger.Warn("Seller account is inactive", map[string]interface{}{
			"user_id":           userID,
			"seller_account_id": account.ID,
		})
		return nil, ErrSellerAccountRequired
	}
	return account, nil
}

func (s *sellerService) GetAccount(userID uint) (*model.SellerAccount, error) {
	if userID == 0 {
		return nil, ErrSellerAccountRequired
	}

	account, err := s.sellerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerAccountRequired
		}
		logger.Error("Failed to load seller account", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return account, nil
}

// OpenAccount creates the user's seller account, or reactivates it. The
// boolean reports whether anything changed.
func (s *sellerService) OpenAccount(userID uint) (*model.SellerAccount, bool, error) {
	account, err := s.GetAccount(userID)
	switch {
	case err == nil && account.Active:
		return account, false, nil
	case err == nil:
		account.Active = true
		if err := s.sellerRepo.Update(account); err != nil {
			return nil, false, err
		}
		logger.Info("Seller account reactivated", map[string]interface{}{
			"user_id":           userID,
			"seller_account_id": account.ID,
		})
		return account, true, nil
	case !errors.Is(err, ErrSellerAccountRequired):
		return nil, false, err
	}

	account = &model.SellerAccount{UserID: userID, Active: true}
	if err := s.sellerRepo.Create(account); err != nil {
		return nil, false, err
	}

	logger.Info("Seller account opened", map[string]interface{}{
		"user_id":           userID,
		"seller_account_id": account.ID,
	})
	return account, true, nil
}
