package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/journal-auth/internal/apierror"
	"github.com/dtroode/journal-auth/internal/logger"
	"github.com/dtroode/journal-auth/internal/model"
)

const msgInvalidBody = "invalid request body"

// WriteError aborts the request with err as JSON. An *apierror.APIError
// keeps its status and message and sets Retry-After when a wait applies.
// Anything else is logged and answered with a generic 500.
func WriteError(c *gin.Context, lg *logger.Logger, err error) {
	apiErr, ok := apierror.As(err)
	if !ok {
		lg.Error("HTTP handler: request failed",
			"path", c.FullPath(),
			"error", err.Error())
		_ = c.Error(err)
		apiErr = apierror.NewInternal()
	}

	body := gin.H{"error": apiErr.Message}
	if secs := apiErr.RetryAfterSeconds(); secs > 0 {
		c.Header("Retry-After", strconv.Itoa(secs))
		body["retryAfter"] = secs
	}
	c.AbortWithStatusJSON(apiErr.Status, body)
}

func claimsFrom(c *gin.Context, cm model.ContextManager) (model.SessionClaims, bool) {
	claims, ok := cm.GetClaimsFromContext(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apierror.MsgNotAuthenticated})
	}
	return claims, ok
}
