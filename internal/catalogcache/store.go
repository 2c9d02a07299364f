package catalogcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"cadence/internal/logging"
)

const defaultTTL = 7 * 24 * time.Hour

// Store persists catalog payloads keyed by kind and identifier.
type Store struct {
	db     *sql.DB
	lock   *flock.Flock
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// Options configures the cache store.
type Options struct {
	// TTL is how long an entry stays fresh. Zero means the default of one
	// week; negative disables expiry.
	TTL    time.Duration
	Logger *slog.Logger
}

// Open initializes or connects to the cache database at path, creating
// parent directories as needed. The sibling lock file guards against other
// processes opening the same database for writing.
func Open(path string, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !ok {
		return nil, errors.New("cache database is locked by another process")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		lock:   lock,
		ttl:    opts.TTL,
		logger: logging.NewComponentLogger(opts.Logger, "catalogcache"),
		now:    time.Now,
	}
	if store.ttl == 0 {
		store.ttl = defaultTTL
	}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close releases the database and the process lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if unlockErr := s.lock.Unlock(); err == nil {
		err = unlockErr
	}
	return err
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS catalog_entries (
            kind TEXT NOT NULL,
            key TEXT NOT NULL,
            payload TEXT NOT NULL,
            cached_at TEXT NOT NULL,
            PRIMARY KEY (kind, key)
        )`)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// get loads a fresh entry into out, reporting whether one existed.
func (s *Store) get(ctx context.Context, kind, key string, out any) (bool, error) {
	var payload, cachedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, cached_at FROM catalog_entries WHERE kind = ? AND key = ?`,
		kind, key).Scan(&payload, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read cache entry: %w", err)
	}

	if s.ttl > 0 {
		stamp, err := time.Parse(time.RFC3339Nano, cachedAt)
		if err != nil || s.now().Sub(stamp) > s.ttl {
			_ = s.delete(ctx, kind, key)
			return false, nil
		}
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		// A payload written by an incompatible version; drop and refetch.
		_ = s.delete(ctx, kind, key)
		return false, nil
	}
	return true, nil
}

// put stores an entry, replacing any previous payload for the key.
func (s *Store) put(ctx context.Context, kind, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO catalog_entries (kind, key, payload, cached_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (kind, key) DO UPDATE SET payload = excluded.payload, cached_at = excluded.cached_at`,
		kind, key, string(payload), s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, kind, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM catalog_entries WHERE kind = ? AND key = ?`, kind, key)
	return err
}

// Purge removes every cached entry.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM catalog_entries`)
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	return res.RowsAffected()
}

// Stats summarizes cache contents for the CLI.
type Stats struct {
	Entries int64
	Oldest  time.Time
	Newest  time.Time
}

// Stats reports entry count and age range.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(cached_at), MAX(cached_at) FROM catalog_entries`).
		Scan(&stats.Entries, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("read cache stats: %w", err)
	}
	if oldest.Valid {
		stats.Oldest, _ = time.Parse(time.RFC3339Nano, oldest.String)
	}
	if newest.Valid {
		stats.Newest, _ = time.Parse(time.RFC3339Nano, newest.String)
	}
	return stats, nil
}
