package middleware

import (
	"sync"
	"time"

	"github.com/flexprice/ordertax/internal/cache"
	"github.com/flexprice/ordertax/internal/config"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/types"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// idle limiters are dropped after this long
const limiterIdleTTL = 10 * time.Minute

// RateLimitMiddleware throttles requests per organization, falling back to
// the client IP for routes without one
func RateLimitMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.RateLimit.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	limiters := cache.NewInMemoryCache(limiterIdleTTL, cache.DefaultCleanupInterval)
	var mu sync.Mutex

	limiterFor := func(c *gin.Context, key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		ctx := c.Request.Context()
		if v, ok := limiters.Get(ctx, key); ok {
			limiter := v.(*rate.Limiter)
			// refresh expiry so active callers keep their bucket
			limiters.Set(ctx, key, limiter, 0)
			return limiter
		}

		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		limiters.Set(ctx, key, limiter, 0)
		return limiter
	}

	return func(c *gin.Context) {
		key := types.GetOrganizationID(c.Request.Context())
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		if !limiterFor(c, key).Allow() {
			c.Error(ierr.NewError("rate limit exceeded").
				WithHint("Too many requests, please retry shortly").
				Mark(ierr.ErrRateLimited))
			c.Abort()
			return
		}

		c.Next()
	}
}
