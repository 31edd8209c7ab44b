package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/digimart-backend/internal/app/service"
	apperrors "github.com/ikkim/digimart-backend/internal/errors"
	"github.com/ikkim/digimart-backend/internal/middleware"
	"github.com/ikkim/digimart-backend/internal/web"
	ws "github.com/ikkim/digimart-backend/internal/websocket"
)

type SellerController struct {
	sellerService  service.SellerService
	productService service.ProductService
	hub            *ws.Hub
}

func NewSellerController(sellerService service.SellerService, productService service.ProductService, hub *ws.Hub) *SellerController {
	return &SellerController{
		sellerService:  sellerService,
		productService: productService,
		hub:            hub,
	}
}

// ListSellerProducts 내 상품 목록
// GET /api/v1/seller/products?q=&page=&page_size=
func (ctrl *SellerController) ListSellerProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	page, err := ctrl.productService.ListSellerProducts(userID, c.Query("q"), paginationFromQuery(c))
	if err != nil {
		respondProductError(c, log, err, "list seller products")
		return
	}

	web.Render(c, http.StatusOK, web.SellerProductListTemplate, pageData(page))
}

// OpenAccount 판매자 계정 개설 (비활성 계정은 재활성화)
// POST /api/v1/seller/account
func (ctrl *SellerController) OpenAccount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	account, changed, err := ctrl.sellerService.OpenAccount(userID)
	if err != nil {
		log.Error("Failed to open seller account", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "open seller account")
		return
	}

	status := http.StatusOK
	if changed {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"seller_account": account})
}

// GetAccount 내 판매자 계정 조회
// GET /api/v1/seller/account
func (ctrl *SellerController) GetAccount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	account, err := ctrl.sellerService.GetAccount(userID)
	if err != nil {
		if errors.Is(err, service.ErrSellerAccountRequired) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "판매자 계정이 없습니다")
			return
		}
		log.Error("Failed to load seller account", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"seller_account": account})
}

// SalesFeed 판매 알림 WebSocket
// GET /api/v1/seller/feed?token=...
// 쿼리 파라미터의 토큰은 요청 로그에서 제거됨 (LoggingMiddleware)
func (ctrl *SellerController) SalesFeed(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	if _, err := ctrl.sellerService.RequireActiveAccount(userID); err != nil {
		respondProductError(c, log, err, "open sales feed")
		return
	}

	conn, err := ws.Upgrade(c.Writer, c.Request)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, conn, userID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Sales feed connected", map[string]interface{}{
		"user_id": userID,
	})
}
