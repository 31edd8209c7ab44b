package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/digimart-backend/config"
	"github.com/ikkim/digimart-backend/internal/app/controller"
	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/internal/middleware"
	"github.com/ikkim/digimart-backend/internal/web"
)

type Router struct {
	authController          *controller.AuthController
	productController       *controller.ProductController
	legacyProductController *controller.LegacyProductController
	sellerController        *controller.SellerController
	tagController           *controller.TagController
	libraryController       *controller.LibraryController
	adminController         *controller.AdminController
	authMiddleware          *middleware.AuthMiddleware
	config                  *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	legacyProductController *controller.LegacyProductController,
	sellerController *controller.SellerController,
	tagController *controller.TagController,
	libraryController *controller.LibraryController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:          authController,
		productController:       productController,
		legacyProductController: legacyProductController,
		sellerController:        sellerController,
		tagController:           tagController,
		libraryController:       libraryController,
		adminController:         adminController,
		authMiddleware:          authMiddleware,
		config:                  cfg,
	}
}

func (r *Router) Setup() (*gin.Engine, error) {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))

	if err := web.Load(router); err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "DIGIMART API is running",
		})
	})

	authenticate := r.authMiddleware.Authenticate()
	optionalAuth := r.authMiddleware.OptionalAuthenticate()
	downloadLimit := middleware.RateLimit("download", r.config.Download.RateLimit, r.config.Download.RatePeriod)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/logout", authenticate, r.authController.Logout)
			auth.GET("/me", authenticate, r.authController.GetMe)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/new", authenticate, r.productController.NewProductForm)
			products.POST("", authenticate, r.productController.CreateProduct)
			products.GET("/:id", optionalAuth, r.productController.GetProduct)
			products.GET("/:id/edit", authenticate, r.productController.EditProductForm)
			products.POST("/:id/edit", authenticate, r.productController.UpdateProduct)
			products.PUT("/:id", authenticate, r.productController.UpdateProduct)
			products.POST("/:id/media", authenticate, r.productController.UploadMedia)
			products.POST("/:id/purchase", authenticate, r.productController.PurchaseProduct)
			products.GET("/:id/download", downloadLimit, optionalAuth, r.productController.DownloadProduct)
		}

		legacy := v1.Group("/legacy/products")
		{
			legacy.GET("", r.legacyProductController.List)
			legacy.POST("", authenticate, r.legacyProductController.Create)
			legacy.GET("/:id", r.legacyProductController.Detail)
			legacy.PUT("/:id", authenticate, r.legacyProductController.Update)
			legacy.GET("/slug/:slug", r.legacyProductController.DetailBySlug)
		}

		seller := v1.Group("/seller")
		seller.Use(authenticate)
		{
			seller.GET("/products", r.sellerController.ListSellerProducts)
			seller.GET("/account", r.sellerController.GetAccount)
			seller.POST("/account", r.sellerController.OpenAccount)
			seller.GET("/feed", r.sellerController.SalesFeed)
		}

		v1.GET("/library", authenticate, r.libraryController.ListLibrary)

		tags := v1.Group("/tags")
		{
			tags.GET("", r.tagController.ListTags)
			tags.GET("/popular", r.tagController.PopularTags)
			tags.GET("/:id", r.tagController.GetTag)
		}

		admin := v1.Group("/admin")
		admin.Use(authenticate, r.authMiddleware.RequireRole(string(model.RoleAdmin)))
		{
			admin.POST("/analytics/refresh", r.adminController.RefreshAnalytics)
		}
	}

	return router, nil
}
