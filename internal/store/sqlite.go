package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// sweepInterval is how often expired dedup records are deleted. SQLite has
// no native TTL, so a background sweeper stands in for it; IsDuplicate
// checks expiry itself and never depends on the sweeper having run.
const sweepInterval = 5 * time.Minute

const schema = `
CREATE TABLE IF NOT EXISTS counters (
	name  TEXT PRIMARY KEY,
	count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS visits (
	fingerprint TEXT PRIMARY KEY,
	created_at  INTEGER NOT NULL,
	expires_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_visits_expires_at ON visits(expires_at);
`

// SQLite is the default store backend, a single database file.
type SQLite struct {
	db       *sql.DB
	logger   *zap.Logger
	done     chan struct{}
	stopOnce sync.Once
}

// OpenSQLite opens (creating if needed) the database at path, runs the
// schema, and starts the expiry sweeper.
func OpenSQLite(path string, logger *zap.Logger) (*SQLite, error) {
	// Ensure the directory exists
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &SQLite{
		db:     db,
		logger: logger,
		done:   make(chan struct{}),
	}
	go s.sweep()
	return s, nil
}

// IncrementCounter implements Store. The UPSERT executes as a single
// statement, so concurrent increments on the same name are never lost.
func (s *SQLite) IncrementCounter(ctx context.Context, name string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO counters (name, count) VALUES (?, 1)
		ON CONFLICT(name) DO UPDATE SET count = count + 1
		RETURNING count
	`, name).Scan(&count)
	if err != nil {
		return 0, unavailable("increment counter", err)
	}
	return count, nil
}

// ReadCounter implements Store
func (s *SQLite) ReadCounter(ctx context.Context, name string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM counters WHERE name = ?`, name).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("read counter", err)
	}
	return count, nil
}

// IsDuplicate implements Store
func (s *SQLite) IsDuplicate(ctx context.Context, fingerprint string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM visits WHERE fingerprint = ? AND expires_at > ?
	`, fingerprint, time.Now().Unix()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, unavailable("check duplicate", err)
	}
	return true, nil
}

// RecordVisit implements Store
func (s *SQLite) RecordVisit(ctx context.Context, fingerprint string, ttl time.Duration) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visits (fingerprint, created_at, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, fingerprint, now.Unix(), now.Add(ttl).Unix())
	if err != nil {
		return unavailable("record visit", err)
	}
	return nil
}

// Close stops the sweeper and closes the database
func (s *SQLite) Close() error {
	s.stopOnce.Do(func() { close(s.done) })
	return s.db.Close()
}

// sweep deletes expired dedup records periodically
func (s *SQLite) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			res, err := s.db.Exec(`DELETE FROM visits WHERE expires_at <= ?`, time.Now().Unix())
			if err != nil {
				s.logger.Warn("visit sweep failed", zap.Error(err))
				continue
			}
			if n, err := res.RowsAffected(); err == nil && n > 0 {
				s.logger.Debug("swept expired visits", zap.Int64("deleted", n))
			}
		case <-s.done:
			return
		}
	}
}
