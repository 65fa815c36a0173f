// Package ratelimit throttles requests with a sliding-window counter keyed
// by namespace and client identifier.
package ratelimit

import (
	"context"
	"math"
	"time"
)

// Policy bounds a namespace to Max requests in any Window-wide interval.
type Policy struct {
	Namespace string
	Max       int
	Window    time.Duration
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, at least one.
func (d Decision) RetryAfterSeconds() int {
	if d.Allowed {
		return 0
	}
	secs := int(math.Ceil(d.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Limiter records a request for clientKey under policy and reports whether
// it is admitted.
type Limiter interface {
	Allow(ctx context.Context, policy Policy, clientKey string) (Decision, error)
}

func key(policy Policy, clientKey string) string {
	return policy.Namespace + ":" + clientKey
}
