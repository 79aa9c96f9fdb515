package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farellandr/certportal/internal/auth"
	"github.com/farellandr/certportal/internal/helpers"
	"github.com/farellandr/certportal/internal/state"
)

const (
	sessionKey = "session"
	adminIDKey = "admin_id"
)

// JWTAuthMiddleware requires a valid bearer token and stores the session on
// the context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPortal(c)
		if p == nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Portal not configured.")
			c.Abort()
			return
		}

		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Missing bearer token.")
			c.Abort()
			return
		}

		session, err := p.Auth.Session(c.Request.Context(), token)
		if err != nil {
			helpers.RespondWithDomainError(c, err, "Failed to verify session.")
			c.Abort()
			return
		}

		// The store forgets its session on restart; a valid token restores it.
		if current := p.Store.Session(); !current.Authenticated || current.User != session.User {
			p.Store.Dispatch(c.Request.Context(), state.LoggedIn{User: session.User})
		}

		c.Set(sessionKey, session)
		c.Set(adminIDKey, session.AdminID)
		c.Next()
	}
}

func GetSession(c *gin.Context) (auth.Session, bool) {
	s, exists := c.Get(sessionKey)
	if !exists {
		return auth.Session{}, false
	}
	return s.(auth.Session), true
}

func GetAdminID(c *gin.Context) (uuid.UUID, bool) {
	id, exists := c.Get(adminIDKey)
	if !exists {
		return uuid.Nil, false
	}
	return id.(uuid.UUID), true
}
