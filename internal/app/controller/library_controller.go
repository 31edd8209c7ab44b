package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/digimart-backend/internal/app/service"
	apperrors "github.com/ikkim/digimart-backend/internal/errors"
	"github.com/ikkim/digimart-backend/internal/middleware"
)

type LibraryController struct {
	libraryService service.LibraryService
}

func NewLibraryController(libraryService service.LibraryService) *LibraryController {
	return &LibraryController{libraryService: libraryService}
}

// ListLibrary 구매한 상품 목록
// GET /api/v1/library
func (ctrl *LibraryController) ListLibrary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	purchases, err := ctrl.libraryService.ListLibrary(userID)
	if err != nil {
		log.Error("Failed to list library", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "구매 목록 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchases": purchases,
		"count":     len(purchases),
	})
}
