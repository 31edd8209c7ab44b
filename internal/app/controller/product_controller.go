package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/internal/app/service"
	apperrors "github.com/ikkim/digimart-backend/internal/errors"
	"github.com/ikkim/digimart-backend/internal/middleware"
	"github.com/ikkim/digimart-backend/internal/web"
)

type ProductController struct {
	productService   service.ProductService
	sellerService    service.SellerService
	mediaService     service.MediaService
	libraryService   service.LibraryService
	analyticsService service.AnalyticsService
}

func NewProductController(
	productService service.ProductService,
	sellerService service.SellerService,
	mediaService service.MediaService,
	libraryService service.LibraryService,
	analyticsService service.AnalyticsService,
) *ProductController {
	return &ProductController{
		productService:   productService,
		sellerService:    sellerService,
		mediaService:     mediaService,
		libraryService:   libraryService,
		analyticsService: analyticsService,
	}
}

func productURL(product *model.Product) string {
	return "/api/v1/products/" + product.Slug
}

// productIDFromParam resolves the :id segment (id or slug) to a product id.
func (ctrl *ProductController) productIDFromParam(c *gin.Context, action string) (uint, bool) {
	product, err := ctrl.productService.GetProduct(c.Param("id"))
	if err != nil {
		respondProductError(c, middleware.GetLoggerFromContext(c), err, action)
		return 0, false
	}
	return product.ID, true
}

// renderFormError re-renders the form for browsers and answers JSON clients
// with per-field errors.
func renderFormError(c *gin.Context, action string, product *model.Product, req ProductRequest, err error) {
	if !web.WantsHTML(c) {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields = apperrors.FieldErrors(verrs)
	}
	c.HTML(http.StatusBadRequest, web.ProductFormTemplate, gin.H{
		"action":  action,
		"product": product,
		"form":    req,
		"fields":  fields,
		"message": "입력 정보를 확인해주세요",
	})
}

// ListProducts 상품 목록 (검색, 페이지네이션)
// GET /api/v1/products?q=&page=&page_size=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := c.Query("q")
	page, err := ctrl.productService.ListProducts(query, paginationFromQuery(c))
	if err != nil {
		log.Error("Failed to list products", err, map[string]interface{}{
			"query": query,
		})
		apperrors.InternalError(c, "상품 목록 조회에 실패했습니다")
		return
	}

	web.Render(c, http.StatusOK, web.ProductListTemplate, pageData(page))
}

// NewProductForm 상품 등록 폼
// GET /api/v1/products/new
func (ctrl *ProductController) NewProductForm(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	if _, err := ctrl.sellerService.RequireActiveAccount(userID); err != nil {
		respondProductError(c, log, err, "open product form")
		return
	}

	web.Render(c, http.StatusOK, web.ProductFormTemplate, gin.H{
		"action": "/api/v1/products",
		"form":   ProductRequest{},
		"fields": map[string]string{},
	})
}

// CreateProduct 상품 등록
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req ProductRequest
	if err := bindProductRequest(c, &req); err != nil {
		log.Warn("Invalid product request", map[string]interface{}{
			"error": err.Error(),
		})
		renderFormError(c, "/api/v1/products", nil, req, err)
		return
	}

	product, err := ctrl.productService.CreateProduct(userID, req.toInput())
	if err != nil {
		respondProductError(c, log, err, "create product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})

	if web.WantsHTML(c) {
		c.Redirect(http.StatusSeeOther, productURL(product))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// EditProductForm 상품 수정 폼 (현재 태그 포함, id 또는 slug)
// GET /api/v1/products/:id/edit
func (ctrl *ProductController) EditProductForm(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	productID, ok := ctrl.productIDFromParam(c, "load product form")
	if !ok {
		return
	}

	form, err := ctrl.productService.GetEditForm(userID, productID)
	if err != nil {
		respondProductError(c, log, err, "load product form")
		return
	}

	web.Render(c, http.StatusOK, web.ProductFormTemplate, gin.H{
		"action":  fmt.Sprintf("/api/v1/products/%d/edit", productID),
		"product": form.Product,
		"form": ProductRequest{
			Title:       form.Product.Title,
			Description: form.Product.Description,
			Price:       form.Product.Price,
			SalePrice:   form.Product.SalePrice,
			Tags:        form.Tags,
		},
		"fields": map[string]string{},
	})
}

// UpdateProduct 상품 수정 (태그 전체 교체)
// PUT /api/v1/products/:id
// POST /api/v1/products/:id/edit (HTML form)
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	productID, ok := ctrl.productIDFromParam(c, "update product")
	if !ok {
		return
	}

	// 권한 확인이 입력 검증보다 먼저
	form, err := ctrl.productService.GetEditForm(userID, productID)
	if err != nil {
		respondProductError(c, log, err, "update product")
		return
	}

	var req ProductRequest
	if err := bindProductRequest(c, &req); err != nil {
		renderFormError(c, fmt.Sprintf("/api/v1/products/%d/edit", productID), form.Product, req, err)
		return
	}

	product, err := ctrl.productService.UpdateProduct(userID, productID, req.toInput())
	if err != nil {
		respondProductError(c, log, err, "update product")
		return
	}

	log.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})

	if web.WantsHTML(c) {
		c.Redirect(http.StatusSeeOther, productURL(product))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// GetProduct 상품 상세 (숫자는 ID, 그 외는 slug)
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	product, err := ctrl.productService.GetProduct(c.Param("id"))
	if err != nil {
		respondProductError(c, log, err, "get product")
		return
	}

	purchased := false
	if userID, ok := middleware.GetUserID(c); ok {
		if err := ctrl.analyticsService.RecordProductView(userID, product); err != nil {
			log.Warn("Failed to record product view", map[string]interface{}{
				"product_id": product.ID,
				"error":      err.Error(),
			})
		}

		purchased, err = ctrl.libraryService.HasPurchased(userID, product.ID)
		if err != nil {
			log.Warn("Failed to check purchase", map[string]interface{}{
				"product_id": product.ID,
				"error":      err.Error(),
			})
		}
	}

	web.Render(c, http.StatusOK, web.ProductDetailTemplate, gin.H{
		"product":   product,
		"purchased": purchased,
	})
}

// UploadMedia 상품 파일 업로드 (multipart field "media")
// POST /api/v1/products/:id/media
func (ctrl *ProductController) UploadMedia(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("media")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "업로드할 파일이 필요합니다")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "파일 업로드에 실패했습니다")
		return
	}
	defer file.Close()

	product, err := ctrl.mediaService.UploadMedia(c.Request.Context(), userID, productID, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMediaTooLarge):
			apperrors.RespondWithError(c, http.StatusRequestEntityTooLarge, apperrors.UploadFileTooLarge, "파일 크기가 너무 큽니다")
		case errors.Is(err, service.ErrUnsupportedMediaType):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "허용되지 않는 파일 형식입니다")
		case errors.Is(err, service.ErrEmptyMedia):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "빈 파일은 업로드할 수 없습니다")
		case errors.Is(err, service.ErrSellerAccountRequired),
			errors.Is(err, service.ErrProductNotFound),
			errors.Is(err, service.ErrProductAccessDenied):
			respondProductError(c, log, err, "upload media")
		default:
			log.Error("Media upload failed", err, map[string]interface{}{
				"product_id": productID,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "파일 업로드에 실패했습니다")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Media uploaded successfully",
		"product":  product,
		"filename": product.MediaFilename(),
	})
}

// DownloadProduct 구매자 전용 파일 다운로드
// GET /api/v1/products/:id/download?preview=1
// 구매하지 않았거나 파일이 없으면 모두 404
func (ctrl *ProductController) DownloadProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	download, err := ctrl.libraryService.OpenDownload(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrDownloadNotAllowed) ||
			errors.Is(err, service.ErrProductNotFound) ||
			errors.Is(err, service.ErrMediaNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "파일을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to open download", err, map[string]interface{}{
			"identifier": c.Param("id"),
		})
		apperrors.InternalError(c, "")
		return
	}
	defer download.Body.Close()

	headers := map[string]string{
		"X-SendFile": download.MediaName,
	}
	// 형식을 알 수 없으면 미리보기 요청이어도 첨부파일로 내려준다
	if c.Query("preview") == "" || !download.Guessed {
		headers["Content-Disposition"] = "attachment; filename=" + download.Filename
	}

	log.Info("Product download started", map[string]interface{}{
		"user_id": userID,
		"media":   download.MediaName,
	})

	c.DataFromReader(http.StatusOK, download.Size, download.ContentType, download.Body, headers)
}

// PurchaseProduct 상품 구매 (라이브러리에 추가)
// POST /api/v1/products/:id/purchase
func (ctrl *ProductController) PurchaseProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	purchase, err := ctrl.libraryService.Purchase(userID, productID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyPurchased):
			apperrors.Conflict(c, apperrors.PurchaseAlreadyExists, "이미 구매한 상품입니다")
		case errors.Is(err, service.ErrCannotBuyOwnProduct):
			apperrors.BadRequest(c, apperrors.PurchaseOwnProduct, "본인 상품은 구매할 수 없습니다")
		default:
			respondProductError(c, log, err, "purchase product")
		}
		return
	}

	if web.WantsHTML(c) {
		c.Redirect(http.StatusSeeOther, productURL(&purchase.Product))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Product purchased successfully",
		"purchase": purchase,
	})
}
