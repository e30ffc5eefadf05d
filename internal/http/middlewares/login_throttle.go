package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/okellodavid/revealhub/internal/throttle"
)

// LoginThrottle caps attempts per client IP inside a fixed window. This
// guards credential stuffing on /login; it is unrelated to the per-user
// selection cap, which is enforced transactionally in storage.
type LoginThrottle struct {
	store  throttle.CounterStore
	limit  int64
	window time.Duration
}

func NewLoginThrottle(store throttle.CounterStore, limit int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{
		store:  store,
		limit:  int64(limit),
		window: window,
	}
}

func (t *LoginThrottle) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "login:" + clientIP(c)

		count, ttl, err := t.store.Incr(c.Request.Context(), key, t.window)

		if err != nil {
			// fail open: a broken throttle store should not take logins down
			c.Next()
			return
		}

		if count > t.limit {
			retryAfter := int(ttl.Seconds())

			if retryAfter < 0 {
				retryAfter = 0
			}

			c.Header("Retry-After", strconv.Itoa(retryAfter))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "rate_limited",
					"message": "Too many login attempts. Please try again shortly.",
				},
			})

			return
		}

		c.Next()
	}
}

func clientIP(c *gin.Context) string {
	// Gin's ClientIP respects X-Forwarded-For / X-Real-IP if configured.
	ip := c.ClientIP()

	// normalize a host:port form if one sneaks through
	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
