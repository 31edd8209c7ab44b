package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/internal/app/repository"
	"github.com/ikkim/digimart-backend/pkg/logger"
	"github.com/ikkim/digimart-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductAccessDenied = errors.New("product access denied")
)

// ProductInput is the editable part of a product listing.
type ProductInput struct {
	Title       string
	Description string
	Price       float64
	SalePrice   *float64
	Tags        string // comma separated tag titles
}

// ProductForm is the initial data of the edit form.
type ProductForm struct {
	Product *model.Product
	Tags    string
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Query    string          `json:"query"`
}

type ProductService interface {
	CreateProduct(userID uint, input ProductInput) (*model.Product, error)
	UpdateProduct(userID, productID uint, input ProductInput) (*model.Product, error)
	GetEditForm(userID, productID uint) (*ProductForm, error)
	GetProduct(identifier string) (*model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)
	ListProducts(query string, page util.Pagination) (*ProductPage, error)
	ListSellerProducts(userID uint, query string, page util.Pagination) (*ProductPage, error)

	// Function style variants kept for older clients.
	LegacyCreateProduct(userID uint, input ProductInput) (*model.Product, error)
	LegacyUpdateProduct(userID, productID uint, input ProductInput) (*model.Product, error)
	LegacyListProducts() ([]model.Product, error)
}

type productService struct {
	productRepo   repository.ProductRepository
	sellerService SellerService
}

func NewProductService(productRepo repository.ProductRepository, sellerService SellerService) ProductService {
	return &productService{
		productRepo:   productRepo,
		sellerService: sellerService,
	}
}

func (s *productService) CreateProduct(userID uint, input ProductInput) (*model.Product, error) {
	account, err := s.sellerService.RequireActiveAccount(userID)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		SellerID:    account.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Price:       input.Price,
		SalePrice:   input.SalePrice,
	}
	tagTitles := util.ParseTagString(input.Tags)

	if err := s.productRepo.CreateWithTags(product, tagTitles); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id":        product.ID,
		"seller_account_id": account.ID,
		"slug":              product.Slug,
		"tag_count":         len(tagTitles),
	})
	return product, nil
}

func (s *productService) UpdateProduct(userID, productID uint, input ProductInput) (*model.Product, error) {
	product, err := s.loadOwnedProduct(userID, productID)
	if err != nil {
		return nil, err
	}

	product.Title = strings.TrimSpace(input.Title)
	product.Description = input.Description
	product.Price = input.Price
	product.SalePrice = input.SalePrice
	tagTitles := util.ParseTagString(input.Tags)

	if err := s.productRepo.UpdateWithTags(product, tagTitles); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
		"tag_count":  len(tagTitles),
	})
	return product, nil
}

func (s *productService) GetEditForm(userID, productID uint) (*ProductForm, error) {
	product, err := s.loadOwnedProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	return &ProductForm{
		Product: product,
		Tags:    util.JoinTagTitles(product.TagTitles()),
	}, nil
}

// loadOwnedProduct evaluates the seller and ownership predicates before any
// mutation is attempted.
func (s *productService) loadOwnedProduct(userID, productID uint) (*model.Product, error) {
	account, err := s.sellerService.RequireActiveAccount(userID)
	if err != nil {
		return nil, err
	}

	product, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	if err := authorizeOwner(account, product); err != nil {
		logger.Warn("Product ownership check failed", map[string]interface{}{
			"product_id":        product.ID,
			"seller_account_id": account.ID,
			"owner_id":          product.SellerID,
		})
		return nil, err
	}
	return product, nil
}

func authorizeOwner(account *model.SellerAccount, product *model.Product) error {
	if account == nil || product.SellerID != account.ID {
		return ErrProductAccessDenied
	}
	return nil
}

// GetProduct resolves a path segment: digits are an id, anything else a slug.
func (s *productService) GetProduct(identifier string) (*model.Product, error) {
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		return s.GetProductByID(uint(id))
	}
	return s.GetProductBySlug(identifier)
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProductBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product by slug", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) ListProducts(query string, page util.Pagination) (*ProductPage, error) {
	return s.list(repository.ProductFilter{}, query, page)
}

func (s *productService) ListSellerProducts(userID uint, query string, page util.Pagination) (*ProductPage, error) {
	account, err := s.sellerService.RequireActiveAccount(userID)
	if err != nil {
		return nil, err
	}
	return s.list(repository.ProductFilter{SellerID: &account.ID}, query, page)
}

func (s *productService) list(filter repository.ProductFilter, query string, page util.Pagination) (*ProductPage, error) {
	filter.Search = strings.TrimSpace(query)
	filter.Limit = page.PageSize
	filter.Offset = page.Offset

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}

	return &ProductPage{
		Products: products,
		Count:    len(products),
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
		Query:    filter.Search,
	}, nil
}

// LegacyCreateProduct stores the listing with its sale price set to the
// price. The tag field is ignored.
func (s *productService) LegacyCreateProduct(userID uint, input ProductInput) (*model.Product, error) {
	account, err := s.sellerService.RequireActiveAccount(userID)
	if err != nil {
		return nil, err
	}

	price := input.Price
	product := &model.Product{
		SellerID:    account.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Price:       price,
		SalePrice:   &price,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created (legacy)", map[string]interface{}{
		"product_id":        product.ID,
		"seller_account_id": account.ID,
	})
	return product, nil
}

// LegacyUpdateProduct saves title, description and price only.
func (s *productService) LegacyUpdateProduct(userID, productID uint, input ProductInput) (*model.Product, error) {
	product, err := s.loadOwnedProduct(userID, productID)
	if err != nil {
		return nil, err
	}

	product.Title = strings.TrimSpace(input.Title)
	product.Description = input.Description
	product.Price = input.Price

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated (legacy)", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) LegacyListProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}
