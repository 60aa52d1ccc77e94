package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/pkg/redis"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

// RateLimit 基于 Redis 滑动窗口的速率限制中间件
// scope 区分受限接口（如 login）；已认证请求按用户计数，否则按客户端 IP。
// rdb 为 nil 或 Redis 出错时降级放行（与 JWTAuth 策略一致）
func RateLimit(rdb *redis.Client, scope string, limit int, window time.Duration) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(window.Seconds()))
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		allowed, err := rdb.CheckRateLimit(c.Request.Context(), rateLimitKey(c, scope), limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", retryAfter)
			response.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// rateLimitKey "login:ip:10.0.0.1" 或 "bookings:user:<uuid>"
func rateLimitKey(c *gin.Context, scope string) string {
	if uid := c.GetString("user_id"); uid != "" {
		return scope + ":user:" + uid
	}
	return scope + ":ip:" + c.ClientIP()
}
