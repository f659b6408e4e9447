package store

import (
	"context"
	"sync"
	"time"
)

// janitorInterval is how often expired in-memory visit records are removed.
const janitorInterval = 5 * time.Minute

// Memory is an in-process store for development and tests. It honors the
// same contract as the external backends, including record expiry.
type Memory struct {
	mu       sync.RWMutex
	counters map[string]int64
	visits   map[string]time.Time // fingerprint -> expiry

	// now is replaceable in tests to step through dedup windows.
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// NewMemory creates an in-memory store and starts its janitor.
func NewMemory() *Memory {
	m := &Memory{
		counters: make(map[string]int64),
		visits:   make(map[string]time.Time),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go m.janitor()
	return m
}

// IncrementCounter implements Store
func (m *Memory) IncrementCounter(ctx context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[name]++
	return m.counters[name], nil
}

// ReadCounter implements Store
func (m *Memory) ReadCounter(ctx context.Context, name string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.counters[name], nil
}

// IsDuplicate implements Store
func (m *Memory) IsDuplicate(ctx context.Context, fingerprint string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	expiry, ok := m.visits[fingerprint]
	return ok && m.now().Before(expiry), nil
}

// RecordVisit implements Store
func (m *Memory) RecordVisit(ctx context.Context, fingerprint string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.visits[fingerprint] = m.now().Add(ttl)
	return nil
}

// Close stops the janitor
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.done) })
	return nil
}

// SetClock replaces the store's clock. Only for tests.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// janitor removes expired visit records periodically
func (m *Memory) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			now := m.now()
			for fingerprint, expiry := range m.visits {
				if !now.Before(expiry) {
					delete(m.visits, fingerprint)
				}
			}
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}
