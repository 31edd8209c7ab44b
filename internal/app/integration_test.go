package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ikkim/digimart-backend/config"
	"github.com/ikkim/digimart-backend/internal/app/controller"
	"github.com/ikkim/digimart-backend/internal/app/repository"
	"github.com/ikkim/digimart-backend/internal/app/service"
	"github.com/ikkim/digimart-backend/internal/db"
	"github.com/ikkim/digimart-backend/internal/middleware"
	"github.com/ikkim/digimart-backend/internal/router"
	"github.com/ikkim/digimart-backend/internal/storage"
	ws "github.com/ikkim/digimart-backend/internal/websocket"
	"github.com/ikkim/digimart-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type TestServer struct {
	Router *gin.Engine
	Hub    *ws.Hub
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)
	util.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { util.BcryptCost = 12 })

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		Server:    config.ServerConfig{GinMode: gin.TestMode},
		JWT:       config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: 15 * time.Minute, RefreshTokenExpiry: 24 * time.Hour},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Media:     config.MediaConfig{Backend: storage.BackendLocal, MaxUploadBytes: 1 << 20},
		Download:  config.DownloadConfig{RateLimit: 30, RatePeriod: time.Minute},
		Analytics: config.AnalyticsConfig{RefreshSchedule: "@every 10m", PopularTagLimit: 10},
	}

	hub := ws.NewHub()
	go hub.Run()

	userRepo := repository.NewUserRepository(testDB)
	sellerRepo := repository.NewSellerAccountRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	sellerService := service.NewSellerService(sellerRepo)
	productService := service.NewProductService(productRepo, sellerService)
	mediaService := service.NewMediaService(productService, productRepo, store, cfg.Media.MaxUploadBytes)
	analyticsService := service.NewAnalyticsService(repository.NewTagViewRepository(testDB), cfg.Analytics.PopularTagLimit)
	tagService := service.NewTagService(repository.NewTagRepository(testDB))
	libraryService := service.NewLibraryService(repository.NewPurchaseRepository(testDB), sellerRepo, productService, store, hub)

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewProductController(productService, sellerService, mediaService, libraryService, analyticsService),
		controller.NewLegacyProductController(productService),
		controller.NewSellerController(sellerService, productService, hub),
		controller.NewTagController(tagService, analyticsService),
		controller.NewLibraryController(libraryService),
		controller.NewAdminController(analyticsService),
		middleware.NewAuthMiddleware(cfg.JWT.Secret),
		cfg,
	)
	engine, err := r.Setup()
	require.NoError(t, err)

	return &TestServer{Router: engine, Hub: hub}
}

func (ts *TestServer) request(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func (ts *TestServer) register(t *testing.T, email string) (uint, string) {
	t.Helper()
	w, body := ts.request(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": "password123",
		"name":     "Test User",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	user := body["user"].(map[string]interface{})
	tokens := body["tokens"].(map[string]interface{})
	return uint(user["id"].(float64)), tokens["access_token"].(string)
}

func TestIntegration_HealthAndCORS(t *testing.T) {
	ts := setupIntegrationTest(t)

	w, body := ts.request(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	ts.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestIntegration_SellToDownloadFlow(t *testing.T) {
	ts := setupIntegrationTest(t)

	sellerID, sellerToken := ts.register(t, "seller@example.com")
	_, buyerToken := ts.register(t, "buyer@example.com")

	// seller opens an account and lists a product
	w, _ := ts.request(t, http.MethodPost, "/api/v1/seller/account", nil, sellerToken)
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := ts.request(t, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"title":       "Field Recordings",
		"description": "Forest ambience",
		"price":       20,
		"sale_price":  12,
		"tags":        "ambient, nature",
	}, sellerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := body["product"].(map[string]interface{})
	productID := uint(product["id"].(float64))
	slug := product["slug"].(string)

	// upload the file
	var upload bytes.Buffer
	mw := multipart.NewWriter(&upload)
	part, err := mw.CreateFormFile("media", "forest.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.5 forest"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/products/%d/media", productID), &upload)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+sellerToken)
	rec := httptest.NewRecorder()
	ts.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// buyer browses
	w, _ = ts.request(t, http.MethodGet, "/api/v1/products/"+slug, nil, buyerToken)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = ts.request(t, http.MethodGet, "/api/v1/products/"+slug+"/download", nil, buyerToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// seller listens for sales
	server := httptest.NewServer(ts.Router)
	defer server.Close()
	feedURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/seller/feed?token=" + sellerToken
	conn, _, err := websocket.DefaultDialer.Dial(feedURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return ts.Hub.IsUserOnline(sellerID) }, 2*time.Second, 10*time.Millisecond)

	w, body = ts.request(t, http.MethodPost, fmt.Sprintf("/api/v1/products/%d/purchase", productID), nil, buyerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(12), body["purchase"].(map[string]interface{})["price"])

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event ws.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, ws.EventSale, event.Type)
	assert.Equal(t, "Field Recordings", event.Data.(map[string]interface{})["product_title"])

	// buyer downloads
	w, _ = ts.request(t, http.MethodGet, "/api/v1/products/"+slug+"/download", nil, buyerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=forest.pdf", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.5 forest", w.Body.String())

	w, body = ts.request(t, http.MethodGet, "/api/v1/library", nil, buyerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])

	w, body = ts.request(t, http.MethodGet, "/api/v1/tags/popular", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["tags"], 2)

	// the seller sees it in their own listing
	w, body = ts.request(t, http.MethodGet, "/api/v1/seller/products", nil, sellerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["total"])
}

func TestIntegration_SalesFeedRequiresSellerAccount(t *testing.T) {
	ts := setupIntegrationTest(t)
	_, token := ts.register(t, "buyer@example.com")

	server := httptest.NewServer(ts.Router)
	defer server.Close()

	feedURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/seller/feed?token=" + token
	_, resp, err := websocket.DefaultDialer.Dial(feedURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
