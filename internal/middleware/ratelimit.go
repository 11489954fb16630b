package middleware

import (
	"net/http"
	"strings"

	"linglong-go/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// ClientID 从转发头推导客户端标识：优先取 X-Forwarded-For 的第一项，
// 其次 X-Real-IP，均缺失时退回 "unknown" 哨兵值。
// 此时所有匿名客户端共享一个配额桶，这是刻意接受的降级公平性。
func ClientID(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return "unknown"
}

// RateLimit 在任何解析、清洗和网络调用之前拦截超额请求，
// 以最低的成本保护外部补全接口。
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(ClientID(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "您的请求过于频繁，请一小时后重试",
			})
			return
		}
		c.Next()
	}
}
