package api

import (
	"errors"
	"fmt"
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/auth"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/middleware"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/session"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/throttle"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/validate"
)

// Request and Response structs
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
	Name     string `json:"name" binding:"required"`     // Display name must be provided
}

// Request struct for login
type LoginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// Request struct for auto-login
type AutoLoginRequest struct {
	RememberToken string `json:"rememberToken"`
}

// userPayload trims a user record to its public fields.
func userPayload(id uint, email, name string) gin.H {
	return gin.H{"id": id, "email": email, "name": name}
}

// CSRFTokenHandler returns the session's CSRF token so the client can
// attach it to mutating calls. Issuing is idempotent: the session
// middleware created the token on first contact.
func CSRFTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := middleware.GetSession(c)
		c.JSON(http.StatusOK, gin.H{"csrfToken": s.CSRFToken})
	}
}

// RegisterHandler creates a user account and opens a session for it
func RegisterHandler(users auth.UserStore, mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email, password, and name are required"})
			return
		}
		// Validate before touching persistence
		email, err := validate.Email(req.Email)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Password(req.Password); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		name := validate.SanitizeString(req.Name, 100)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}
		// Hash the password and create the user
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Password hashing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			return
		}
		user, err := users.Create(c.Request.Context(), email, hash, name)
		if err != nil {
			if errors.Is(err, auth.ErrDuplicateEmail) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
				return
			}
			logrus.WithField("error", err.Error()).Error("Registration failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			return
		}
		// Bind the fresh account to the current session
		s := middleware.GetSession(c)
		s.UserID = user.ID
		if err := mgr.Save(c.Request.Context(), s); err != nil {
			logrus.WithField("error", err.Error()).Error("Session save failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Registration successful",
			"user":    userPayload(user.ID, user.Email, user.Name),
		})
	}
}

// LoginHandler authenticates a user, rotates the session, and
// optionally issues a remember token
func LoginHandler(users auth.UserStore, issuer *auth.Issuer, thr *throttle.Throttle, mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}
		ctx := c.Request.Context()
		key := throttle.Key(req.Email, c.ClientIP())

		// Enforce the lockout before doing any credential work
		status, err := thr.Check(ctx, key)
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Throttle check failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}
		if status.Locked {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": fmt.Sprintf("Too many login attempts. Please try again in %d minutes.",
					throttle.RetryMinutes(status.RetryAfter)),
			})
			return
		}

		// Unknown email and bad password answer identically so the
		// endpoint cannot be used to enumerate accounts.
		user, err := users.FindByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				recordFailure(c, thr, key)
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
				return
			}
			logrus.WithField("error", err.Error()).Error("Login lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}
		if !auth.CheckPassword(req.Password, user.PasswordHash) {
			recordFailure(c, thr, key)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		// Successful login clears the failure record
		if err := thr.Clear(ctx, key); err != nil {
			logrus.WithField("error", err.Error()).Warn("Throttle clear failed")
		}

		// Rotate the session id and CSRF token to defeat fixation; the
		// client resumes with the token from this response.
		s := middleware.GetSession(c)
		s.UserID = user.ID
		s.RememberMe = req.RememberMe
		if err := mgr.Regenerate(ctx, s); err != nil {
			logrus.WithField("error", err.Error()).Error("Session regeneration failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}
		middleware.WriteSessionCookie(c, mgr, s)

		var rememberToken any // Stays null unless remember-me succeeds
		if req.RememberMe {
			token, err := issuer.Issue(ctx, user.ID)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"user_id": user.ID,
					"error":   err.Error(),
				}).Error("Remember token issuance failed")
			} else {
				rememberToken = token
			}
		}

		logrus.WithFields(logrus.Fields{
			"user_id":     user.ID,
			"remember_me": req.RememberMe,
		}).Info("Login successful")

		c.JSON(http.StatusOK, gin.H{
			"message":       "Login successful",
			"user":          userPayload(user.ID, user.Email, user.Name),
			"rememberToken": rememberToken,
			"csrfToken":     s.CSRFToken,
		})
	}
}

// recordFailure books a failed attempt, logging but not surfacing store
// errors: a broken throttle store must not block legitimate logins.
func recordFailure(c *gin.Context, thr *throttle.Throttle, key string) {
	if err := thr.RecordFailure(c.Request.Context(), key); err != nil {
		logrus.WithField("error", err.Error()).Warn("Failed to record login attempt")
	}
	logrus.WithFields(logrus.Fields{
		"key": key,
		"ip":  c.ClientIP(),
	}).Warn("Failed login attempt")
}

// AutoLoginHandler redeems a remember token for a fresh 30-day session
func AutoLoginHandler(issuer *auth.Issuer, mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AutoLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.RememberToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No token provided"})
			return
		}
		ctx := c.Request.Context()
		user, err := issuer.Redeem(ctx, req.RememberToken)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			case errors.Is(err, auth.ErrInvalidToken):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			default:
				logrus.WithField("error", err.Error()).Error("Auto-login failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Auto-login failed"})
			}
			return
		}
		// Establish a fresh session with the extended lifetime
		s := middleware.GetSession(c)
		s.UserID = user.ID
		s.RememberMe = true
		if err := mgr.Regenerate(ctx, s); err != nil {
			logrus.WithField("error", err.Error()).Error("Session regeneration failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Auto-login failed"})
			return
		}
		middleware.WriteSessionCookie(c, mgr, s)
		c.JSON(http.StatusOK, gin.H{
			"message":   "Auto-login successful",
			"user":      userPayload(user.ID, user.Email, user.Name),
			"csrfToken": s.CSRFToken,
		})
	}
}

// LogoutHandler destroys the session and clears the cookie
func LogoutHandler(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := middleware.GetSession(c)
		if err := mgr.Destroy(c.Request.Context(), s); err != nil {
			logrus.WithField("error", err.Error()).Error("Logout failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
			return
		}
		middleware.ClearSessionCookie(c, mgr)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

// MeHandler returns the authenticated user, or 401
func MeHandler(users auth.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := middleware.GetSession(c)
		if s == nil || !s.Authenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		user, err := users.FindByID(c.Request.Context(), s.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
