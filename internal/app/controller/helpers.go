package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ikkim/digimart-backend/internal/app/service"
	apperrors "github.com/ikkim/digimart-backend/internal/errors"
	"github.com/ikkim/digimart-backend/pkg/logger"
	"github.com/ikkim/digimart-backend/pkg/util"
)

// ProductRequest is the product form, accepted as JSON or as a form post.
type ProductRequest struct {
	Title       string   `json:"title" form:"title" binding:"required,max=120"`
	Description string   `json:"description" form:"description"`
	Price       float64  `json:"price" form:"price" binding:"required,gt=0"`
	SalePrice   *float64 `json:"sale_price" form:"sale_price" binding:"omitempty,gte=0"`
	Tags        string   `json:"tags" form:"tags" binding:"tagtitles"`
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("tagtitles", func(fl validator.FieldLevel) bool {
			return util.TagTitlesFit(fl.Field().String())
		})
	}
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Price:       r.Price,
		SalePrice:   r.SalePrice,
		Tags:        r.Tags,
	}
}

// bindProductRequest binds the request body. An empty sale_price form field
// means no sale price rather than zero.
func bindProductRequest(c *gin.Context, req *ProductRequest) error {
	if err := c.ShouldBind(req); err != nil {
		return err
	}
	if v, ok := c.GetPostForm("sale_price"); ok && strings.TrimSpace(v) == "" {
		req.SalePrice = nil
	}
	return nil
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 ID입니다")
		return 0, false
	}
	return uint(id), true
}

func paginationFromQuery(c *gin.Context) util.Pagination {
	return util.ParsePagination(c.Query("page"), c.Query("page_size"))
}

func pageData(page *service.ProductPage) gin.H {
	return gin.H{
		"products":  page.Products,
		"count":     page.Count,
		"total":     page.Total,
		"page":      page.Page,
		"page_size": page.PageSize,
		"query":     page.Query,
		"has_next":  int64(page.Page*page.PageSize) < page.Total,
	}
}

// respondProductError maps product and seller account errors to responses.
func respondProductError(c *gin.Context, log *logger.Logger, err error, action string) {
	switch {
	case errors.Is(err, service.ErrSellerAccountRequired):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.SellerAccountRequired, "활성화된 판매자 계정이 필요합니다")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "상품을 찾을 수 없습니다")
	case errors.Is(err, service.ErrProductAccessDenied):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "본인 상품만 수정할 수 있습니다")
	default:
		log.Error("Product request failed", err, map[string]interface{}{
			"action": action,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, action)
	}
}
