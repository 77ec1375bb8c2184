package middleware

import (
	"errors"
	"net/http"
	"strings"

	"correspondance-app/internal/logger"
	"correspondance-app/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxLogin  = "login"
	ctxClaims = "session_claims"
)

// SessionToken returns the raw token of the request, from the session cookie
// or a Bearer Authorization header.
func SessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
		return strings.TrimSpace(token)
	}
	return ""
}

// LoadSession resolves the current user when a valid session is presented.
// Anonymous requests pass through untouched.
func LoadSession(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := SessionToken(c)
		if raw == "" {
			c.Next()
			return
		}

		claims, err := m.Parse(c.Request.Context(), raw)
		if err != nil {
			if !errors.Is(err, session.ErrInvalidToken) && !errors.Is(err, session.ErrRevoked) {
				logger.Get().Error().Err(err).Msg("session lookup failed")
			}
			c.Next()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxLogin, claims.Login)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// RequireUser refuses requests without a signed-in user.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Accès refusé"})
			return
		}
		c.Next()
	}
}

// CurrentUserID is 0 for anonymous requests.
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

func CurrentClaims(c *gin.Context) *session.Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*session.Claims)
	return claims
}
