package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/digimart-backend/internal/errors"
	"github.com/ikkim/digimart-backend/pkg/redis"
)

// WindowCounter counts hits of a key inside a fixed window.
type WindowCounter func(ctx context.Context, key string, window time.Duration) (int64, error)

// RateLimit allows limit requests per client IP and scope within period.
// The counter lives in Redis; without Redis (or when Redis errors) requests pass.
func RateLimit(scope string, limit int64, period time.Duration) gin.HandlerFunc {
	return RateLimitWithCounter(redis.IncrWindow, scope, limit, period)
}

func RateLimitWithCounter(counter WindowCounter, scope string, limit int64, period time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		key := "rate_limit:" + scope + ":" + c.ClientIP()
		count, err := counter(c.Request.Context(), key, period)
		if err != nil {
			GetLoggerFromContext(c).Warn("Rate limit counter unavailable", map[string]interface{}{
				"scope": scope,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		if count > limit {
			GetLoggerFromContext(c).Warn("Rate limit exceeded", map[string]interface{}{
				"scope": scope,
				"ip":    c.ClientIP(),
				"count": count,
			})
			c.Header("Retry-After", strconv.Itoa(int(period.Seconds())))
			errors.RespondWithError(c, http.StatusTooManyRequests, errors.DownloadRateLimited, "Too many requests. Please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
