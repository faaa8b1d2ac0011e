package web

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var httpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "folio_http_requests_total",
		Help: "HTTP requests handled by the federation gateway.",
	},
	[]string{"path", "method", "status"},
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
}

// MetricsMiddleware counts every handled request by route template, method
// and response status.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
