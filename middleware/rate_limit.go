package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/IWTDPLZZZ/Habit-Tracker/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Counter это счётчик с окном; его реализует cache.RedisStore.
type Counter interface {
	IncrementCounter(ctx context.Context, key string, expiration time.Duration) (int64, error)
}

// RateLimit пропускает maxRequests запросов с одного IP за окно. При сбое
// счётчика запрос пропускается.
func RateLimit(counter Counter, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := fmt.Sprintf("rate_limit:%s", clientIP)

		count, err := counter.IncrementCounter(c.Request.Context(), key, window)
		if err != nil {
			utils.Logger.Error("rate_limit_error", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, maxRequests-int(count))))

		if count > int64(maxRequests) {
			utils.Logger.Warn("rate_limit_exceeded",
				zap.String("ip", clientIP),
				zap.Int64("count", count),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Слишком много запросов. Попробуйте позже.",
			})
			return
		}

		c.Next()
	}
}
