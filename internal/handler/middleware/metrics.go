package middleware

import (
	"strconv"
	"time"

	"coffee-loyalty/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const unmatchedRoute = "unmatched"

func Metrics(m *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.ObserveRequest(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
