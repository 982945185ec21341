package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/mohammed-tarek-rezk/Taskify/internal/constants"
	apierrors "github.com/mohammed-tarek-rezk/Taskify/internal/errors"
	"github.com/mohammed-tarek-rezk/Taskify/internal/services"
	"github.com/sirupsen/logrus"
)

// TokenParser validates bearer tokens.
type TokenParser interface {
	Parse(token string) (*services.Claims, error)
}

// RequireAuth authenticates the request with a bearer token, falling back to the
// session cookie set at login.
func RequireAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				apierrors.Unauthorized(c, "Not authorized, no token")
				c.Abort()
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"path":  c.Request.URL.Path,
					"error": err.Error(),
				}).Warn("rejected bearer token")
				apierrors.Unauthorized(c, "Not authorized, token failed")
				c.Abort()
				return
			}

			c.Set(constants.ContextKeyUserID, claims.UserID)
			c.Next()
			return
		}

		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)
		if userID == nil {
			apierrors.Unauthorized(c, "Not authorized, no token")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		// gob and JSON session codecs may widen the stored id
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
