// Package mail provides Mailer implementations used to deliver verification
// links and one-time codes.
package mail

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/dtroode/journal-auth/internal/logger"
	"github.com/dtroode/journal-auth/internal/model"
)

// LogMailer writes messages to the log instead of sending them. Development only.
type LogMailer struct {
	logger *logger.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *logger.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

var _ model.Mailer = (*LogMailer)(nil)

// Send implements model.Mailer.
func (m *LogMailer) Send(_ context.Context, msg model.Message) error {
	m.logger.Info("Mailer: message not sent, logging instead",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body)
	return nil
}

// Throttled bounds outbound delivery rate and the time each delivery may take.
type Throttled struct {
	next    model.Mailer
	limiter *rate.Limiter
	timeout time.Duration
}

// NewThrottled wraps next with a limit of perSecond messages and a per-send timeout.
func NewThrottled(next model.Mailer, perSecond float64, timeout time.Duration) *Throttled {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		timeout: timeout,
	}
}

var _ model.Mailer = (*Throttled)(nil)

// Send waits for a delivery slot, then delivers within the timeout.
func (t *Throttled) Send(ctx context.Context, msg model.Message) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("failed to acquire mail slot: %w", err)
	}

	return t.next.Send(ctx, msg)
}
