package middleware

import (
	"sync"

	"go-hr-payroll/internal/shared/apperror"
	"go-hr-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyedRateLimiter hands out one token bucket per key.
type KeyedRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       *sync.Mutex
	r        rate.Limit // requests per second
	b        int        // burst
}

func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		mu:       &sync.Mutex{},
		r:        r,
		b:        b,
	}
}

func (k *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	limiter, exists := k.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(k.r, k.b)
		k.limiters[key] = limiter
	}

	return limiter
}

func rateLimit(limiter *KeyedRateLimiter, key func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		k := key(c)
		if k == "" {
			c.Next()
			return
		}
		if !limiter.GetLimiter(k).Allow() {
			response.FromError(c, apperror.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}

func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	return rateLimit(NewKeyedRateLimiter(r, b), func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitByTenant limits each actor of a company; requests without an actor
// share the company bucket. Must run after Tenant.
func RateLimitByTenant(r rate.Limit, b int) gin.HandlerFunc {
	return rateLimit(NewKeyedRateLimiter(r, b), func(c *gin.Context) string {
		companyID := c.GetString("company_id")
		if companyID == "" {
			return ""
		}
		return companyID + ":" + c.GetString("actor_id")
	})
}
