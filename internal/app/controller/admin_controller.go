package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/digimart-backend/internal/app/service"
	apperrors "github.com/ikkim/digimart-backend/internal/errors"
	"github.com/ikkim/digimart-backend/internal/middleware"
)

type AdminController struct {
	analyticsService service.AnalyticsService
}

func NewAdminController(analyticsService service.AnalyticsService) *AdminController {
	return &AdminController{analyticsService: analyticsService}
}

// RefreshAnalytics 인기 태그 집계 즉시 갱신
// POST /api/v1/admin/analytics/refresh
func (ctrl *AdminController) RefreshAnalytics(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.analyticsService.RefreshPopularTags(c.Request.Context()); err != nil {
		log.Error("Manual analytics refresh failed", err)
		apperrors.InternalError(c, "집계 갱신에 실패했습니다")
		return
	}

	log.Info("Analytics refreshed manually", nil)
	c.JSON(http.StatusOK, gin.H{
		"message":      "Analytics refreshed",
		"refreshed_at": ctrl.analyticsService.LastRefresh(),
	})
}
