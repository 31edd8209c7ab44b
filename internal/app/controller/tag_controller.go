package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/digimart-backend/internal/app/service"
	apperrors "github.com/ikkim/digimart-backend/internal/errors"
	"github.com/ikkim/digimart-backend/internal/middleware"
)

const defaultPopularTagLimit = 10

type TagController struct {
	tagService       service.TagService
	analyticsService service.AnalyticsService
}

func NewTagController(tagService service.TagService, analyticsService service.AnalyticsService) *TagController {
	return &TagController{
		tagService:       tagService,
		analyticsService: analyticsService,
	}
}

// ListTags 태그 목록 조회
// GET /api/v1/tags
func (ctrl *TagController) ListTags(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tags, err := ctrl.tagService.ListTags()
	if err != nil {
		log.Error("Failed to list tags", err)
		apperrors.InternalError(c, "태그 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags": tags,
	})
}

// PopularTags 조회수 기준 인기 태그
// GET /api/v1/tags/popular?limit=10
func (ctrl *TagController) PopularTags(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPopularTagLimit)))
	if err != nil || limit <= 0 {
		limit = defaultPopularTagLimit
	}

	tags, err := ctrl.analyticsService.PopularTags(limit)
	if err != nil {
		log.Error("Failed to load popular tags", err)
		apperrors.InternalError(c, "인기 태그 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags":         tags,
		"refreshed_at": ctrl.analyticsService.LastRefresh(),
	})
}

// GetTag 태그 상세 (연결된 상품 포함)
// GET /api/v1/tags/:id
func (ctrl *TagController) GetTag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tagID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tag, err := ctrl.tagService.GetTag(tagID)
	if err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			apperrors.NotFound(c, apperrors.TagNotFound, "태그를 찾을 수 없습니다")
			return
		}
		log.Error("Failed to load tag", err, map[string]interface{}{
			"tag_id": tagID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": tag})
}
