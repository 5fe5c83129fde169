package middleware

import (
	"net/http"

	"pspicdash/domain/core"
	"pspicdash/internal"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session_id"

var logger = internal.DefaultLogger.Component("Session")

// sessionMaxAge keeps the navigation cookie for a year
const sessionMaxAge = 365 * 24 * 60 * 60

// EnsureSession makes sure every request carries a client identifier. A missing
// or malformed cookie is replaced with a fresh one.
func EnsureSession(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cookieName)
		id, parseErr := core.ParseSessionID(raw)
		if err != nil || parseErr != nil {
			if raw != "" {
				logger.Debug("replacing malformed session cookie: %v", parseErr)
			}
			id = core.NewSessionID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, id.String(), sessionMaxAge, "/", "", false, true)
		}
		c.Set(sessionKey, id)
		c.Next()
	}
}

// SessionID returns the identifier set by EnsureSession
func SessionID(c *gin.Context) core.SessionID {
	if v, ok := c.Get(sessionKey); ok {
		if id, ok := v.(core.SessionID); ok {
			return id
		}
	}
	return ""
}
