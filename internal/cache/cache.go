// Package cache is the freshness layer around warehouse reads: results are
// memoized by (operation, parameters) for a configurable TTL so repeated
// interactions within the window observe a consistent snapshot.
package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL matches the dashboard's standard 10-minute freshness window.
const DefaultTTL = 10 * time.Minute

// Store is a read-mostly TTL memoization layer. It is safe for concurrent
// use by multiple sessions; entries expire, they are never invalidated by
// writes (the API path is read-only).
type Store struct {
	c *gocache.Cache
}

// New creates a Store whose entries live for ttl. Non-positive ttl falls
// back to DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{c: gocache.New(ttl, 2*ttl)}
}

// Key builds a cache key from an operation name and its parameters.
func Key(op string, params ...string) string {
	if len(params) == 0 {
		return op
	}
	return op + "|" + strings.Join(params, "|")
}

// Get returns the cached value for key and whether it is still fresh.
func (s *Store) Get(key string) (any, bool) {
	return s.c.Get(key)
}

// Set stores v under key with the Store's TTL.
func (s *Store) Set(key string, v any) {
	s.c.SetDefault(key, v)
}

// Flush drops every entry. Used by tests.
func (s *Store) Flush() {
	s.c.Flush()
}
