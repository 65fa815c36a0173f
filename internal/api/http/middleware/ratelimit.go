package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/journal-auth/internal/api/http/handler"
	"github.com/dtroode/journal-auth/internal/apierror"
	"github.com/dtroode/journal-auth/internal/logger"
	"github.com/dtroode/journal-auth/internal/ratelimit"
)

// RateLimit rejects clients that exceed a policy.
type RateLimit struct {
	limiter ratelimit.Limiter
	logger  *logger.Logger
}

// NewRateLimit creates a new RateLimit middleware.
func NewRateLimit(limiter ratelimit.Limiter, logger *logger.Logger) *RateLimit {
	return &RateLimit{limiter: limiter, logger: logger}
}

// Limit gates requests per client IP under policy. Limiter failures reject the request.
func (m *RateLimit) Limit(policy ratelimit.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := m.limiter.Allow(c.Request.Context(), policy, c.ClientIP())
		if err != nil {
			m.logger.Error("RateLimit middleware: limiter unavailable",
				"namespace", policy.Namespace,
				"error", err.Error())
			handler.WriteError(c, m.logger, apierror.NewInternal())
			return
		}

		if !decision.Allowed {
			m.logger.Info("RateLimit middleware: request throttled",
				"namespace", policy.Namespace,
				"client_ip", c.ClientIP(),
				"retry_after", decision.RetryAfterSeconds())
			handler.WriteError(c, m.logger, apierror.NewRateLimited(decision.RetryAfter))
			return
		}

		c.Next()
	}
}
