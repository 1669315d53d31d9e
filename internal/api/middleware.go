package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The session provider in front of this service authenticates the visitor
// and forwards the resolved owner identity in this header. The core never
// sees credentials, only the opaque user id.
const userIDHeader = "X-User-ID"

const userIDKey = "userID"

// RequireUser rejects requests that carry no caller identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// callerID returns the authenticated owner id set by RequireUser.
func callerID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
