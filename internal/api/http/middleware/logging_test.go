package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/journal-auth/internal/logger"
)

func TestLogging_Handle(t *testing.T) {
	var buf bytes.Buffer
	lg := &logger.Logger{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(NewLogging(lg).Handle)
	e.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	e.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Contains(t, buf.String(), "HTTP request completed")
	assert.Contains(t, buf.String(), "path=/ok")
	assert.Contains(t, buf.String(), "status=200")

	buf.Reset()
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Contains(t, buf.String(), "HTTP request failed")
	assert.Contains(t, buf.String(), "status=500")
}
