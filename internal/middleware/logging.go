// Package middleware 存放 Gin 框架的中间件。
package middleware

import (
	"bytes"
	"io"
	"time"

	"linglong-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// 请求体日志截断长度。出生信息和问答内容属于敏感输入，只记录前缀用于排障。
const maxLoggedBodyLen = 512

// truncateForLog 按字符截断请求体，避免把多字节汉字切成乱码。
func truncateForLog(body string) string {
	runes := []rune(body)
	if len(runes) <= maxLoggedBodyLen {
		return body
	}
	return string(runes[:maxLoggedBodyLen]) + "…"
}

// RequestLogger 是一个 Gin 中间件，用于记录请求日志。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		// 读取并重新缓存请求体，以便后续处理函数可以正常读取
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))

		c.Next()

		latency := time.Since(startTime)
		body := truncateForLog(string(requestBody))

		log.Infow("HTTP Request Log",
			"statusCode", c.Writer.Status(),
			"latency", latency.String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"requestBody", body,
		)
	}
}
