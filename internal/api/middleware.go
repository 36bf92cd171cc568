package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Backpressure returns middleware that sheds load when this instance is
// over its global intake rate. This protects the database during spikes;
// it is separate from the persisted per-identifier rate limits, which stay
// consistent across instances.
func Backpressure(rps, burst int) gin.HandlerFunc {
	if rps <= 0 {
		rps = 100
	}
	if burst <= 0 {
		burst = rps
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "service is busy, please retry",
			})
			return
		}
		c.Next()
	}
}
