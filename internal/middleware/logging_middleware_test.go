package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/digimart-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureRequestLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	logger.Initialize(logger.Config{Level: "debug", Format: "json", Output: buf})
	t.Cleanup(func() {
		logger.Initialize(logger.Config{Level: "info", Format: "console"})
	})
	return buf
}

func TestLoggingMiddleware_RedactsQueryToken(t *testing.T) {
	buf := captureRequestLog(t)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	router.GET("/api/v1/seller/feed", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/seller/feed?token=SECRET.JWT.VALUE&since=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, buf.String(), "SECRET.JWT.VALUE")
	assert.Contains(t, buf.String(), `"query":"since=5"`)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRedactQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "no token", raw: "q=ebook&page=2", want: "q=ebook&page=2"},
		{name: "token only", raw: "token=abc", want: ""},
		{name: "token among others", raw: "page=2&token=abc&q=x", want: "page=2&q=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &url.URL{Path: "/", RawQuery: tt.raw}
			assert.Equal(t, tt.want, redactQuery(u))
		})
	}
}
