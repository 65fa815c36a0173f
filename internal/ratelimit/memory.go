package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	mu     sync.Mutex
	hits   []time.Time
	window time.Duration
}

// prune drops hits that have left the window ending at now. Caller holds e.mu.
func (e *entry) prune(now time.Time) {
	cutoff := now.Add(-e.window)
	i := 0
	for i < len(e.hits) && !e.hits[i].After(cutoff) {
		i++
	}
	if i > 0 {
		e.hits = append(e.hits[:0], e.hits[i:]...)
	}
}

func (e *entry) allow(policy Policy, now time.Time) Decision {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.window = policy.Window
	e.prune(now)

	if len(e.hits) >= policy.Max {
		return Decision{RetryAfter: e.hits[0].Add(policy.Window).Sub(now)}
	}

	e.hits = append(e.hits, now)
	return Decision{Allowed: true}
}

// Memory is a process-local Limiter. Each key has its own lock so the
// prune-count-append sequence is serialized per key.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

// MemoryOption configures a Memory limiter.
type MemoryOption func(*Memory)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates an empty in-memory limiter.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{entries: make(map[string]*entry), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ Limiter = (*Memory)(nil)

// Allow implements Limiter.
func (m *Memory) Allow(_ context.Context, policy Policy, clientKey string) (Decision, error) {
	k := key(policy, clientKey)
	now := m.now()

	// The map lock is held (shared) while the entry is used so that Sweep
	// cannot drop an entry another request is about to append to.
	m.mu.RLock()
	if e, ok := m.entries[k]; ok {
		d := e.allow(policy, now)
		m.mu.RUnlock()
		return d, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[k]
	if !ok {
		e = &entry{window: policy.Window}
		m.entries[k] = e
	}
	return e.allow(policy, now), nil
}

// Sweep removes keys with no hits left in their window and returns how many
// were removed.
func (m *Memory) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, e := range m.entries {
		e.mu.Lock()
		e.prune(now)
		empty := len(e.hits) == 0
		e.mu.Unlock()

		if empty {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Run sweeps every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
