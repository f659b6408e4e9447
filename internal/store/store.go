// Package store persists counters and dedup records. Counter updates go
// through the backend's atomic increment primitive; no counter value is ever
// cached or computed client-side. Dedup records carry an expiry and are
// treated as absent once it passes.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ketig/hit-counter/internal/config"
)

// ErrUnavailable wraps any backend communication failure. Callers only need
// to know the store could not be reached, not which call failed.
var ErrUnavailable = errors.New("storage unavailable")

// Store is the narrow persistence interface the request pipeline needs.
type Store interface {
	// IncrementCounter atomically adds one to the named counter and returns
	// the post-increment value. An absent counter reads as 0 before the add.
	IncrementCounter(ctx context.Context, name string) (int64, error)

	// ReadCounter returns the current value without mutation. An absent
	// counter reads as 0.
	ReadCounter(ctx context.Context, name string) (int64, error)

	// IsDuplicate reports whether a dedup record for this fingerprint exists
	// and has not expired.
	IsDuplicate(ctx context.Context, fingerprint string) (bool, error)

	// RecordVisit inserts or refreshes the dedup record for this fingerprint
	// with the given time to live. Overwrites any existing record.
	RecordVisit(ctx context.Context, fingerprint string, ttl time.Duration) error

	// Close releases backend resources.
	Close() error
}

// Open creates the store backend selected by the configuration.
func Open(cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLite(cfg.Path, logger)
	case "redis":
		return OpenRedis(cfg.RedisAddr, cfg.RedisAuth)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// unavailable wraps a backend error as ErrUnavailable
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
