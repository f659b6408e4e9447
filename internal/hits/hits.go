// Package hits is the request pipeline: it decides whether a visit counts,
// talks to the store, and reports the resulting counter value together with
// how the visit was classified.
package hits

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ketig/hit-counter/internal/config"
	"github.com/ketig/hit-counter/internal/store"
	"github.com/ketig/hit-counter/internal/visitor"
)

// ErrNameNotAllowed is returned for counter names outside the allow-list.
// It is detected before any storage access.
var ErrNameNotAllowed = errors.New("counter name not allowed")

// Outcome classifies how a visit was handled.
type Outcome int

const (
	// OutcomeCounted means the visit incremented the counter.
	OutcomeCounted Outcome = iota
	// OutcomeDuplicate means the visitor was already seen in this dedup
	// window; the counter was read but not incremented.
	OutcomeDuplicate
	// OutcomeBot means the user agent classified as automated; the counter
	// was read but not incremented.
	OutcomeBot
)

// String returns the outcome label used in headers and logs
func (o Outcome) String() string {
	switch o {
	case OutcomeCounted:
		return "counted"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeBot:
		return "bot"
	default:
		return "unknown"
	}
}

// Visit is one incoming request, already reduced to what the pipeline needs.
type Visit struct {
	Name      string
	UserAgent string
	SourceIP  string
}

// Result is the counter value to render and the visit classification.
type Result struct {
	Name    string
	Count   int64
	Outcome Outcome
}

// Service runs the visit pipeline against a store.
type Service struct {
	store  store.Store
	names  config.NameSet
	window time.Duration
	logger *zap.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// NewService creates the pipeline service. The allow-list and window are
// fixed for the process lifetime.
func NewService(st store.Store, names config.NameSet, window time.Duration, logger *zap.Logger) *Service {
	return &Service{
		store:  st,
		names:  names,
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

// Process classifies the visit and returns the counter value to render.
//
// A name outside the allow-list fails with ErrNameNotAllowed before any
// store access. A bot reads the current count. A human visit is
// fingerprinted; a duplicate inside the dedup window reads, a fresh one
// records its fingerprint and increments. The check-then-record sequence is
// not transactional: two concurrent requests with the same fingerprint can
// both count. That occasional double count is accepted.
func (s *Service) Process(ctx context.Context, v Visit) (Result, error) {
	if !s.names.Contains(v.Name) {
		return Result{}, ErrNameNotAllowed
	}

	if visitor.IsBot(v.UserAgent) {
		count, err := s.store.ReadCounter(ctx, v.Name)
		if err != nil {
			return Result{}, err
		}
		return Result{Name: v.Name, Count: count, Outcome: OutcomeBot}, nil
	}

	info := visitor.Info{UserAgent: v.UserAgent, SourceIP: v.SourceIP}
	fingerprint := info.Fingerprint(s.now(), s.window).String()

	duplicate, err := s.store.IsDuplicate(ctx, fingerprint)
	if err != nil {
		return Result{}, err
	}
	if duplicate {
		count, err := s.store.ReadCounter(ctx, v.Name)
		if err != nil {
			return Result{}, err
		}
		return Result{Name: v.Name, Count: count, Outcome: OutcomeDuplicate}, nil
	}

	// Record first so that a retry of this same visit dedups instead of
	// counting twice. The increment, once acknowledged by the store, is
	// never rolled back.
	if err := s.store.RecordVisit(ctx, fingerprint, s.window); err != nil {
		return Result{}, err
	}
	count, err := s.store.IncrementCounter(ctx, v.Name)
	if err != nil {
		return Result{}, err
	}

	s.logger.Debug("visit counted",
		zap.String("name", v.Name),
		zap.Int64("count", count))

	return Result{Name: v.Name, Count: count, Outcome: OutcomeCounted}, nil
}
