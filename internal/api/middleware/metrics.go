package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/pkg/metrics"
)

// Metrics 记录请求计数与耗时；route 取路由模板，避免路径参数导致标签爆炸
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
