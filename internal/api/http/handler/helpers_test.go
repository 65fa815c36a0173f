package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	httpctx "github.com/dtroode/journal-auth/internal/api/http/context"
	"github.com/dtroode/journal-auth/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withClaims stands in for the authenticate middleware.
func withClaims(cm model.ContextManager, claims *model.SessionClaims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Request = c.Request.WithContext(cm.SetClaimsToContext(c.Request.Context(), *claims))
		}
		c.Next()
	}
}

func serve(t *testing.T, e *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func setCookieHeader(rec *httptest.ResponseRecorder, name string) string {
	for _, h := range rec.Header().Values("Set-Cookie") {
		if strings.HasPrefix(h, name+"=") {
			return h
		}
	}
	return ""
}

var fullClaims = model.SessionClaims{
	Subject:       "7f9c2b7a-52a1-4f4e-9d57-1b0f3b8f7e11",
	Email:         "user@example.com",
	EmailVerified: true,
	TwoFactorDone: true,
}

func newContextManager() model.ContextManager {
	return httpctx.NewManager()
}
