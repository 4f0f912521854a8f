package middleware

import (
	"net/http"
	"strings"

	"github.com/IWTDPLZZZ/Habit-Tracker/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const TokenSubjectKey = "token_subject"

// TokenAuth требует "Authorization: Bearer <jwt>", подписанный secret.
// Пустой secret отключает проверку.
func TokenAuth(secret string) gin.HandlerFunc {
	if secret == "" {
		return func(c *gin.Context) { c.Next() }
	}
	key := []byte(secret)

	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		subject, err := utils.ParseToken(key, strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			utils.Logger.Debug("token_rejected", zap.Error(err), zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(TokenSubjectKey, subject)
		c.Next()
	}
}
