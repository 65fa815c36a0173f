// Package cookie writes the session carrier cookies.
package cookie

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/journal-auth/internal/model"
)

const (
	// Session carries a completed session token.
	Session = "session"
	// Pending carries a token awaiting the second factor.
	Pending = "pending_2fa"
	// Guest marks demo sessions handled outside this service. It is never read here.
	Guest = "guest"
)

// Writer sets and clears session cookies.
type Writer struct {
	secure bool
}

// NewWriter creates a Writer. secure marks cookies HTTPS-only.
func NewWriter(secure bool) *Writer {
	return &Writer{secure: secure}
}

// SetSession stores s in the cookie matching its kind.
func (w *Writer) SetSession(c *gin.Context, s model.Session, sameSite http.SameSite) {
	name := Session
	if s.Pending {
		name = Pending
	}
	w.set(c, name, s.Token, int(s.TTL/time.Second), sameSite)
}

// Clear expires the named cookies.
func (w *Writer) Clear(c *gin.Context, names ...string) {
	for _, name := range names {
		w.set(c, name, "", -1, http.SameSiteLaxMode)
	}
}

func (w *Writer) set(c *gin.Context, name, value string, maxAge int, sameSite http.SameSite) {
	c.SetSameSite(sameSite)
	c.SetCookie(name, value, maxAge, "/", "", w.secure, true)
}
