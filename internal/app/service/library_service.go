package service

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"

	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/internal/app/repository"
	"github.com/ikkim/digimart-backend/internal/storage"
	"github.com/ikkim/digimart-backend/pkg/logger"
)

var (
	ErrAlreadyPurchased    = errors.New("product already purchased")
	ErrCannotBuyOwnProduct = errors.New("sellers cannot purchase their own products")
	ErrDownloadNotAllowed  = errors.New("download not allowed")
	ErrMediaNotFound       = errors.New("product media not found")
)

const defaultContentType = "application/octet-stream"

// SaleNotifier pushes live events to a user's open sessions.
type SaleNotifier interface {
	SendToUser(userID uint, eventType string, data interface{}) error
}

// Download is an opened product file ready to stream. Callers must close Body.
type Download struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
	Filename    string
	MediaName   string
	// Guessed is false when the type could not be derived from the file name.
	Guessed bool
}

type LibraryService interface {
	Purchase(userID, productID uint) (*model.Purchase, error)
	HasPurchased(userID, productID uint) (bool, error)
	ListLibrary(userID uint) ([]model.Purchase, error)
	OpenDownload(ctx context.Context, userID uint, identifier string) (*Download, error)
}

type libraryService struct {
	purchaseRepo   repository.PurchaseRepository
	sellerRepo     repository.SellerAccountRepository
	productService ProductService
	store          storage.MediaStorage
	notifier       SaleNotifier
}

func NewLibraryService(
	purchaseRepo repository.PurchaseRepository,
	sellerRepo repository.SellerAccountRepository,
	productService ProductService,
	store storage.MediaStorage,
	notifier SaleNotifier,
) LibraryService {
	return &libraryService{
		purchaseRepo:   purchaseRepo,
		sellerRepo:     sellerRepo,
		productService: productService,
		store:          store,
		notifier:       notifier,
	}
}

func (s *libraryService) Purchase(userID, productID uint) (*model.Purchase, error) {
	product, err := s.productService.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	seller, err := s.sellerRepo.FindByID(product.SellerID)
	if err != nil {
		logger.Error("Failed to load product seller", err, map[string]interface{}{
			"product_id": product.ID,
			"seller_id":  product.SellerID,
		})
		return nil, err
	}
	if seller.UserID == userID {
		return nil, ErrCannotBuyOwnProduct
	}

	purchased, err := s.HasPurchased(userID, product.ID)
	if err != nil {
		return nil, err
	}
	if purchased {
		return nil, ErrAlreadyPurchased
	}

	purchase := &model.Purchase{
		UserID:    userID,
		ProductID: product.ID,
		Price:     product.EffectivePrice(),
	}
	if err := s.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}
	purchase.Product = *product

	logger.Info("Product purchased", map[string]interface{}{
		"user_id":    userID,
		"product_id": product.ID,
		"price":      purchase.Price,
	})

	if s.notifier != nil {
		if err := s.notifier.SendToUser(seller.UserID, "sale", map[string]interface{}{
			"product_id":    product.ID,
			"product_title": product.Title,
			"price":         purchase.Price,
			"purchase_id":   purchase.ID,
		}); err != nil {
			logger.Warn("Failed to notify seller of sale", map[string]interface{}{
				"seller_user_id": seller.UserID,
				"error":          err.Error(),
			})
		}
	}
	return purchase, nil
}

func (s *libraryService) HasPurchased(userID, productID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.purchaseRepo.Exists(userID, productID)
}

func (s *libraryService) ListLibrary(userID uint) ([]model.Purchase, error) {
	purchases, err := s.purchaseRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if purchases == nil {
		purchases = []model.Purchase{}
	}
	return purchases, nil
}

// OpenDownload opens the product file for a buyer. Anonymous callers and
// users without a purchase get ErrDownloadNotAllowed.
func (s *libraryService) OpenDownload(ctx context.Context, userID uint, identifier string) (*Download, error) {
	if userID == 0 {
		return nil, ErrDownloadNotAllowed
	}

	product, err := s.productService.GetProduct(identifier)
	if err != nil {
		return nil, err
	}

	purchased, err := s.HasPurchased(userID, product.ID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		logger.Warn("Download denied: product not purchased", map[string]interface{}{
			"user_id":    userID,
			"product_id": product.ID,
		})
		return nil, ErrDownloadNotAllowed
	}

	if !product.HasMedia() {
		return nil, ErrMediaNotFound
	}

	obj, err := s.store.Open(ctx, product.Media)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			logger.Warn("Product media missing from storage", map[string]interface{}{
				"product_id": product.ID,
				"media":      product.Media,
				"backend":    s.store.Backend(),
			})
			return nil, ErrMediaNotFound
		}
		return nil, err
	}

	contentType, guessed := GuessContentType(product.Media)
	return &Download{
		Body:        obj.Body,
		Size:        obj.Size,
		ContentType: contentType,
		Filename:    product.MediaFilename(),
		MediaName:   product.Media,
		Guessed:     guessed,
	}, nil
}

// GuessContentType derives a MIME type from the file extension.
func GuessContentType(name string) (string, bool) {
	ext := path.Ext(name)
	if ext == "" {
		return defaultContentType, false
	}
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		return defaultContentType, false
	}
	return contentType, true
}
