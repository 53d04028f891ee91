package cache

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"
)

// PostgresStore keeps cache entries in the github_cache table:
// (cache_key unique, data jsonb, expires_at, created_at).
type PostgresStore struct {
	db *sql.DB
	// now is swappable for expiry tests.
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT data, expires_at FROM github_cache WHERE cache_key = $1;`

	var payload []byte
	var expiresAt time.Time
	err := s.db.QueryRowContext(ctx, q, key).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if !s.now().Before(expiresAt) {
		// Stale entry: treat as a miss and clean it up off the request
		// path. A failed delete only means the next reader sweeps it.
		go s.deleteExpired(key, expiresAt)
		return nil, false, nil
	}

	return payload, true, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	const q = `
INSERT INTO github_cache (cache_key, data, expires_at, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cache_key)
DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at;
`
	now := s.now()
	_, err := s.db.ExecContext(ctx, q, key, payload, now.Add(ttl), now)
	return err
}

func (s *PostgresStore) deleteExpired(key string, expiresAt time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Guard on expires_at so a concurrent Put refreshing the key is not
	// deleted by a racing lazy cleanup.
	const q = `DELETE FROM github_cache WHERE cache_key = $1 AND expires_at = $2;`
	if _, err := s.db.ExecContext(ctx, q, key, expiresAt); err != nil {
		log.Printf("cache: failed to delete expired entry %q: %v", key, err)
	}
}
