package server

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

// OrderRateLimit throttles the fulfillment endpoints per client IP so a
// misbehaving console tab cannot drain the stock table.
func (s *Server) OrderRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.orderLimiter == nil {
			c.Next()
			return
		}

		res := s.orderLimiter.Allow(c.Request.Context(), c.ClientIP())
		if res.Allowed {
			c.Next()
			return
		}

		retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		AbortWithError(c, ErrTooManyRequests)
	}
}
