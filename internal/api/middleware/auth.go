package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-feed/pkg/response"
	"github.com/d60-Lab/social-feed/pkg/token"
)

const userIDKey = "user_id"

// Auth Bearer token -> user_id 写入 context
func Auth(verifier *token.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == "" {
			raw = c.Query("token")
		}
		userID, err := verifier.Verify(raw)
		if err != nil {
			response.Unauthorized(c, "invalid or missing token")
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID 从 context 取当前用户 ID
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
