package middleware

import (
	"net/http"

	"praxisagent/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyAuthMiddleware guards the dashboard endpoints with a single
// operator API key, checked against the bcrypt hash from configuration.
func APIKeyAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		hash := config.AppConfig.DashboardKeyHash
		if hash == "" {
			zap.L().Error("dashboard key hash not configured; refusing access")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard access not configured"})
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
			zap.L().Warn("rejected dashboard request with invalid API key", zap.String("ip", getClientIP(c)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}
		c.Next()
	}
}
