package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/internal/app/repository"
	"github.com/ikkim/digimart-backend/internal/app/service"
	"github.com/ikkim/digimart-backend/internal/db"
	"github.com/ikkim/digimart-backend/internal/middleware"
	"github.com/ikkim/digimart-backend/internal/storage"
	"github.com/ikkim/digimart-backend/internal/web"
	ws "github.com/ikkim/digimart-backend/internal/websocket"
	"github.com/ikkim/digimart-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type controllerEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	store   *storage.LocalStorage
	hub     *ws.Hub
	users   repository.UserRepository
	product service.ProductService
	seller  service.SellerService
	library service.LibraryService
}

func setupControllerTest(t *testing.T) *controllerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	util.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { util.BcryptCost = 12 })

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	hub := ws.NewHub()
	go hub.Run()

	userRepo := repository.NewUserRepository(testDB)
	sellerRepo := repository.NewSellerAccountRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	tagViewRepo := repository.NewTagViewRepository(testDB)
	purchaseRepo := repository.NewPurchaseRepository(testDB)

	authService := service.NewAuthService(userRepo, testSecret, 15*time.Minute, 24*time.Hour)
	sellerService := service.NewSellerService(sellerRepo)
	productService := service.NewProductService(productRepo, sellerService)
	mediaService := service.NewMediaService(productService, productRepo, store, 1<<20)
	analyticsService := service.NewAnalyticsService(tagViewRepo, 10)
	tagService := service.NewTagService(repository.NewTagRepository(testDB))
	libraryService := service.NewLibraryService(purchaseRepo, sellerRepo, productService, store, hub)

	authCtrl := NewAuthController(authService)
	productCtrl := NewProductController(productService, sellerService, mediaService, libraryService, analyticsService)
	legacyCtrl := NewLegacyProductController(productService)
	sellerCtrl := NewSellerController(sellerService, productService, hub)
	tagCtrl := NewTagController(tagService, analyticsService)
	libraryCtrl := NewLibraryController(libraryService)
	adminCtrl := NewAdminController(analyticsService)

	authMW := middleware.NewAuthMiddleware(testSecret)
	authenticate := authMW.Authenticate()
	optional := authMW.OptionalAuthenticate()

	router := gin.New()
	require.NoError(t, web.Load(router))

	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", authCtrl.Register)
	v1.POST("/auth/login", authCtrl.Login)
	v1.POST("/auth/refresh", authCtrl.Refresh)
	v1.POST("/auth/logout", authenticate, authCtrl.Logout)
	v1.GET("/auth/me", authenticate, authCtrl.GetMe)

	v1.GET("/products", productCtrl.ListProducts)
	v1.GET("/products/new", authenticate, productCtrl.NewProductForm)
	v1.POST("/products", authenticate, productCtrl.CreateProduct)
	v1.GET("/products/:id", optional, productCtrl.GetProduct)
	v1.GET("/products/:id/edit", authenticate, productCtrl.EditProductForm)
	v1.POST("/products/:id/edit", authenticate, productCtrl.UpdateProduct)
	v1.PUT("/products/:id", authenticate, productCtrl.UpdateProduct)
	v1.POST("/products/:id/media", authenticate, productCtrl.UploadMedia)
	v1.POST("/products/:id/purchase", authenticate, productCtrl.PurchaseProduct)
	v1.GET("/products/:id/download", optional, productCtrl.DownloadProduct)

	v1.GET("/legacy/products", legacyCtrl.List)
	v1.POST("/legacy/products", authenticate, legacyCtrl.Create)
	v1.GET("/legacy/products/:id", legacyCtrl.Detail)
	v1.PUT("/legacy/products/:id", authenticate, legacyCtrl.Update)
	v1.GET("/legacy/products/slug/:slug", legacyCtrl.DetailBySlug)

	v1.GET("/seller/products", authenticate, sellerCtrl.ListSellerProducts)
	v1.GET("/seller/account", authenticate, sellerCtrl.GetAccount)
	v1.POST("/seller/account", authenticate, sellerCtrl.OpenAccount)

	v1.GET("/library", authenticate, libraryCtrl.ListLibrary)
	v1.GET("/tags", tagCtrl.ListTags)
	v1.GET("/tags/popular", tagCtrl.PopularTags)
	v1.GET("/tags/:id", tagCtrl.GetTag)
	v1.POST("/admin/analytics/refresh", authenticate, authMW.RequireRole(string(model.RoleAdmin)), adminCtrl.RefreshAnalytics)

	return &controllerEnv{
		router:  router,
		db:      testDB,
		store:   store,
		hub:     hub,
		users:   userRepo,
		product: productService,
		seller:  sellerService,
		library: libraryService,
	}
}

// createUser stores a user and returns it with a valid access token.
func (env *controllerEnv) createUser(t *testing.T, email string, role model.UserRole) (*model.User, string) {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "x", Name: "Test User", Role: role}
	require.NoError(t, env.users.Create(user))

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), testSecret, time.Hour, time.Hour)
	require.NoError(t, err)
	return user, tokens.AccessToken
}

func (env *controllerEnv) createSeller(t *testing.T, email string) (*model.User, string) {
	t.Helper()
	user, token := env.createUser(t, email, model.RoleUser)
	_, _, err := env.seller.OpenAccount(user.ID)
	require.NoError(t, err)
	return user, token
}

func (env *controllerEnv) createProduct(t *testing.T, userID uint, title, tags string) *model.Product {
	t.Helper()
	product, err := env.product.CreateProduct(userID, service.ProductInput{
		Title:       title,
		Description: title + " description",
		Price:       10,
		Tags:        tags,
	})
	require.NoError(t, err)
	return product
}

func (env *controllerEnv) attachMedia(t *testing.T, product *model.Product, key, content string) {
	t.Helper()
	require.NoError(t, env.store.Save(context.Background(), key, strings.NewReader(content), int64(len(content)), ""))
	require.NoError(t, env.db.Model(&model.Product{}).Where("id = ?", product.ID).Update("media", key).Error)
}

type requestOption func(*http.Request)

func withToken(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func acceptHTML() requestOption {
	return func(r *http.Request) { r.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8") }
}

func (env *controllerEnv) do(method, path string, body interface{}, opts ...requestOption) *httptest.ResponseRecorder {
	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
		contentType = "application/x-www-form-urlencoded"
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
