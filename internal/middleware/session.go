package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/session"
)

// sessionContextKey is where the loaded session lives in the gin context.
const sessionContextKey = "session"

// SessionMiddleware associates every request with a server-side
// session, creating one lazily on first contact. The cookie is (re)set
// whenever the session id differs from what the client presented.
func SessionMiddleware(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cookieID string
		if cookie, err := c.Cookie(session.CookieName); err == nil {
			cookieID = cookie
		}
		s, err := mgr.Load(c.Request.Context(), cookieID)
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Session load failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if s.ID != cookieID {
			WriteSessionCookie(c, mgr, s)
		}
		c.Set(sessionContextKey, s)
		c.Next()
	}
}

// GetSession returns the session loaded by SessionMiddleware.
func GetSession(c *gin.Context) *session.Session {
	if s, ok := c.Get(sessionContextKey); ok {
		return s.(*session.Session)
	}
	return nil
}

// WriteSessionCookie sets the session identifier cookie. HttpOnly and
// SameSite=Strict always; Secure per deployment config.
func WriteSessionCookie(c *gin.Context, mgr *session.Manager, s *session.Session) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(session.CookieName, s.ID, int(mgr.TTL(s).Seconds()), "/", "", mgr.SecureCookie, true)
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c *gin.Context, mgr *session.Manager) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", mgr.SecureCookie, true)
}
