package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mkulima/soko/internal/auth"
	"mkulima/soko/internal/config"
	"mkulima/soko/internal/models"
)

const (
	// ContextKeySessionID holds the key for the session ID in Gin context.
	ContextKeySessionID = "sessionID"
	// ContextKeyUser holds the key for the signed-in user hint in Gin context.
	ContextKeyUser = "sessionUser"
)

// SessionMiddleware ensures every request carries a valid session cookie.
// First-time visitors get an anonymous session; a tampered or expired cookie
// is replaced the same way. The user hint inside the token is exactly that,
// a hint for rendering; the backend re-checks authorization on every call.
func SessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(cfg.CookieName); err == nil {
			if claims, err := auth.ValidateSessionToken(cookie, cfg.SessionSecret); err == nil {
				c.Set(ContextKeySessionID, claims.SessionID)
				if user := claims.User(); user != nil {
					c.Set(ContextKeyUser, user)
				}
				c.Next()
				return
			}
		}

		sessionID := uuid.NewString()
		if err := IssueSession(c, cfg, sessionID, nil); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Set(ContextKeySessionID, sessionID)
		c.Next()
	}
}

// IssueSession writes a fresh session cookie carrying the given user hint.
// Login and logout reuse this to swap the hint while keeping cookie settings
// in one place.
func IssueSession(c *gin.Context, cfg *config.Config, sessionID string, user *models.User) error {
	token, err := auth.GenerateSessionToken(sessionID, user, cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, token, int(cfg.SessionTTL.Seconds()), "/", "", false, true)
	return nil
}

// SessionID returns the request's session ID. SessionMiddleware guarantees
// it is set.
func SessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}

// CurrentUser returns the signed-in user hint, or nil for anonymous sessions.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextKeyUser); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// RequireUser redirects anonymous sessions to the login page.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin bounces non-admin sessions back to the market page.
// Assumes SessionMiddleware runs first.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
