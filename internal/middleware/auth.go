package middleware

import (
	"net/http"
	"strings"

	"github.com/Rishu1724/TextMeIfYouCan/internal/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const uidKey = "auth.uid"

// Authenticate validates the bearer credential on each request and
// attaches the resolved uid to the context. Handlers must read the
// actor through UID, never from request payloads.
func Authenticate(provider identity.Provider, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		uid, err := provider.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			logger.Debug("token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(uidKey, uid)
		c.Next()
	}
}

// UID returns the authenticated user's uid for the request.
func UID(c *gin.Context) string {
	return c.GetString(uidKey)
}
