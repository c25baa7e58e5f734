package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireAuth aborts requests whose session carries no user.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := GetSession(c)
		if s == nil || !s.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Please login."})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id. Only meaningful behind
// RequireAuth.
func UserID(c *gin.Context) uint {
	if s := GetSession(c); s != nil {
		return s.UserID
	}
	return 0
}
