// Package cache stores previously fetched GitHub API payloads with a
// time-based expiry so the marketplace read path stays inside upstream rate
// limits. The cache is a pure optimization: every failure degrades to a miss.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultTTL is how long a cached GitHub response stays live.
const DefaultTTL = time.Hour

// Store is the TTL-keyed payload store backing the response cache.
type Store interface {
	// Get returns the payload for key, or ok=false when the key is absent
	// or its entry has expired.
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	// Put upserts the payload under key with expiry now+ttl. Writing the
	// same key twice leaves exactly one entry, the second write winning.
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// ListKey derives the cache key for a repository list query. The search term
// is trimmed; case is preserved.
func ListKey(search string) string {
	return "repo_list_" + strings.TrimSpace(search)
}

// DetailKey derives the cache key for a repository detail query.
func DetailKey(owner, repo string) string {
	return fmt.Sprintf("repo_detail_%s_%s", owner, repo)
}

// Noop is the degraded-mode store used when no backing store is available:
// Get always misses and Put does nothing.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Noop) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return nil
}
