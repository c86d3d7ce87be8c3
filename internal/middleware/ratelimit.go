package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-huddle/internal/infrastructure/ratelimit"
)

// RateLimit guards privileged endpoints with the shared fixed-window limiter,
// keyed by the authenticated actor (client address before authentication).
// The X-RateLimit-* headers are set on every response; a denied request gets
// 429 plus a Retry-After hint in whole seconds.
func RateLimit(limiter *ratelimit.Limiter, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := ActorID(c)
		if identifier == "" {
			identifier = c.ClientIP()
		}

		res := limiter.Check(identifier, maxRequests, window)
		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "rate_limited",
					"message": fmt.Sprintf("too many requests, retry in %ds", retryAfter),
				},
			})
			return
		}
		c.Next()
	}
}
