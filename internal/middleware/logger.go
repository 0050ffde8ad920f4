// Package middleware 提供了 Gin 框架的中间件。
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nichestudioai/aibnb-superhost/pkg/log"
)

// RequestLogger 记录每个 HTTP 请求的方法、路径、状态码和耗时。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Infow("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latencyMs", time.Since(start).Milliseconds(),
			"clientIP", c.ClientIP(),
		)
	}
}
