package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Session is the identity view supplied by the upstream identity
// provider. The gateway verifies tokens and forwards claims as headers;
// this API only uses them to prefill checkout and gate admin routes.
// No cart logic depends on it.
type Session struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	DisplayName     string `json:"display_name,omitempty"`
	Email           string `json:"email,omitempty"`
	Role            string `json:"role,omitempty"`
}

const sessionKey = "storefront_session"

// SessionMiddleware extracts the forwarded identity headers into the
// request context. Anonymous requests get a zero session.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := Session{
			DisplayName: c.GetHeader("X-User-Name"),
			Email:       c.GetHeader("X-User-Email"),
			Role:        c.GetHeader("X-User-Role"),
		}
		s.IsAuthenticated = s.Email != ""
		c.Set(sessionKey, s)
		c.Next()
	}
}

// SessionFrom returns the session attached to the request.
func SessionFrom(c *gin.Context) Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return Session{}
}

// RequireAdmin gates the back-office routes on the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := SessionFrom(c)
		if !s.IsAuthenticated || s.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin_only"})
			return
		}
		c.Next()
	}
}

// getSession returns the prefill view for the checkout form.
func (a *api) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, SessionFrom(c))
}
