package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/journal-auth/internal/api/http/cookie"
	"github.com/dtroode/journal-auth/internal/apierror"
	"github.com/dtroode/journal-auth/internal/logger"
	"github.com/dtroode/journal-auth/internal/model"
)

// Authenticate validates session cookies and injects claims into the request context.
type Authenticate struct {
	issuer         model.SessionIssuer
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(issuer model.SessionIssuer, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{issuer: issuer, contextManager: contextManager, logger: logger}
}

// RequireSession admits requests carrying a completed session.
func (m *Authenticate) RequireSession() gin.HandlerFunc {
	return m.require(cookie.Session, m.issuer.VerifySession)
}

// RequirePending admits requests carrying a pending second-factor token.
func (m *Authenticate) RequirePending() gin.HandlerFunc {
	return m.require(cookie.Pending, m.issuer.VerifyPending)
}

// RequireAdmin must run after RequireSession.
func (m *Authenticate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.contextManager.GetClaimsFromContext(c.Request.Context())
		if !ok || !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			return
		}
		c.Next()
	}
}

func (m *Authenticate) require(name string, verify func(string) (model.SessionClaims, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(name)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apierror.MsgNotAuthenticated})
			return
		}

		claims, err := verify(token)
		if err != nil {
			m.logger.Debug("Authenticate middleware: rejected token",
				"cookie", name,
				"path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apierror.MsgNotAuthenticated})
			return
		}

		c.Request = c.Request.WithContext(m.contextManager.SetClaimsToContext(c.Request.Context(), claims))
		c.Next()
	}
}
