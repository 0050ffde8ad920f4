// Package middleware 提供了 Gin 框架的中间件。
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/nichestudioai/aibnb-superhost/pkg/token"
)

// 上下文键，供 handler 读取当前登录的房东信息。
const (
	ContextHostIDKey    = "hostId"
	ContextHostEmailKey = "hostEmail"
	ContextTokenKey     = "accessToken"
)

// JWTAuth 验证请求头中的 Bearer token，并将房东信息注入上下文。
// rdb 非 nil 时额外检查登出黑名单。
func JWTAuth(jwtManager *token.JWTManager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "missing authorization header",
			})
			return
		}

		// 期望格式: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "invalid authorization header format",
			})
			return
		}
		tokenString := parts[1]

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "invalid or expired token",
			})
			return
		}

		// 已登出的 token 在黑名单里，剩余有效期内拒绝访问
		if rdb != nil {
			exists, err := rdb.Exists(c.Request.Context(), "jwt:blacklist:"+tokenString).Result()
			if err == nil && exists > 0 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"code":    http.StatusUnauthorized,
					"message": "token has been revoked",
				})
				return
			}
		}

		c.Set(ContextHostIDKey, claims.HostID)
		c.Set(ContextHostEmailKey, claims.Email)
		c.Set(ContextTokenKey, tokenString)
		c.Next()
	}
}
