package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/digimart-backend/internal/app/service"
	apperrors "github.com/ikkim/digimart-backend/internal/errors"
	"github.com/ikkim/digimart-backend/internal/middleware"
	"github.com/ikkim/digimart-backend/internal/web"
)

// LegacyProductController serves the older function style product endpoints.
// Tags are never processed here and there is no search or paging.
type LegacyProductController struct {
	productService service.ProductService
}

func NewLegacyProductController(productService service.ProductService) *LegacyProductController {
	return &LegacyProductController{productService: productService}
}

// Create 상품 등록 (sale_price = price)
// POST /api/v1/legacy/products
func (ctrl *LegacyProductController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req ProductRequest
	if err := bindProductRequest(c, &req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	product, err := ctrl.productService.LegacyCreateProduct(userID, req.toInput())
	if err != nil {
		respondProductError(c, log, err, "create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// Update 상품 수정 (태그, 할인가는 변경하지 않음)
// PUT /api/v1/legacy/products/:id
func (ctrl *LegacyProductController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := ctrl.productService.GetEditForm(userID, productID); err != nil {
		respondProductError(c, log, err, "update product")
		return
	}

	var req ProductRequest
	if err := bindProductRequest(c, &req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	product, err := ctrl.productService.LegacyUpdateProduct(userID, productID, req.toInput())
	if err != nil {
		respondProductError(c, log, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Detail 상품 상세 (ID)
// GET /api/v1/legacy/products/:id
func (ctrl *LegacyProductController) Detail(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(productID)
	if err != nil {
		respondProductError(c, log, err, "get product")
		return
	}

	web.Render(c, http.StatusOK, web.ProductDetailTemplate, gin.H{"product": product})
}

// DetailBySlug 상품 상세 (slug)
// GET /api/v1/legacy/products/slug/:slug
func (ctrl *LegacyProductController) DetailBySlug(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	product, err := ctrl.productService.GetProductBySlug(c.Param("slug"))
	if err != nil {
		respondProductError(c, log, err, "get product")
		return
	}

	web.Render(c, http.StatusOK, web.ProductDetailTemplate, gin.H{"product": product})
}

// List 전체 상품 (최신순)
// GET /api/v1/legacy/products
func (ctrl *LegacyProductController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.LegacyListProducts()
	if err != nil {
		log.Error("Failed to list products", err)
		apperrors.InternalError(c, "상품 목록 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}
