package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"uplink/backend/common"

	"github.com/gin-gonic/gin"
)

// Fixed-window limits. The window state lives in Redis when available so
// multiple instances share it; otherwise a per-process map stands in.
const (
	globalAPIMaxRequests = 180
	globalAPIWindow      = time.Minute

	criticalMaxRequests = 20
	criticalWindow      = 20 * time.Minute

	uploadMaxRequests = 30
	uploadWindow      = time.Minute
)

type memoryWindow struct {
	count   int
	resetAt time.Time
}

var (
	memoryLimiter      = make(map[string]*memoryWindow)
	memoryLimiterMutex sync.Mutex
)

func redisRateLimit(ctx context.Context, key string, maxRequests int, window time.Duration) (bool, error) {
	count, err := common.RDB.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := common.RDB.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(maxRequests), nil
}

func memoryRateLimit(key string, maxRequests int, window time.Duration) bool {
	memoryLimiterMutex.Lock()
	defer memoryLimiterMutex.Unlock()
	now := time.Now()
	w, ok := memoryLimiter[key]
	if !ok {
		memoryLimiter[key] = &memoryWindow{count: 1, resetAt: now.Add(window)}
		return true
	}
	if now.After(w.resetAt) {
		w.count = 1
		w.resetAt = now.Add(window)
		return true
	}
	w.count++
	return w.count <= maxRequests
}

func rateLimiter(prefix string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate:%s:%s", prefix, c.ClientIP())
		allowed := true
		if common.RedisEnabled && common.RDB != nil {
			ok, err := redisRateLimit(c, key, maxRequests, window)
			if err != nil {
				// Redis trouble should not take the API down with it.
				common.SysError("rate limiter redis error: " + err.Error())
				ok = memoryRateLimit(key, maxRequests, window)
			}
			allowed = ok
		} else {
			allowed = memoryRateLimit(key, maxRequests, window)
		}
		if !allowed {
			common.RespErrorStr(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}

func GlobalAPIRateLimit() gin.HandlerFunc {
	return rateLimiter("api", globalAPIMaxRequests, globalAPIWindow)
}

// CriticalRateLimit guards login, registration, and other abuse magnets.
func CriticalRateLimit() gin.HandlerFunc {
	return rateLimiter("critical", criticalMaxRequests, criticalWindow)
}

// UploadRateLimit guards the public upload endpoint.
func UploadRateLimit() gin.HandlerFunc {
	return rateLimiter("upload", uploadMaxRequests, uploadWindow)
}
