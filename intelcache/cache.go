// Package intelcache is the stale-while-revalidate cache for completed
// pipeline payloads. Entries are whole-payload replacements keyed by the
// target's normalized identity; concurrent readers never observe a partial
// write. An entry past the staleness threshold is still served while the
// caller schedules a background refresh; past the hard expiry it is absent.
package intelcache

import (
	"context"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"roadwatch/config"
	"roadwatch/types"
)

// Entry is one cached pipeline result.
type Entry struct {
	Key      string             `json:"key"`
	Payload  types.IntelPayload `json:"payload"`
	StoredAt time.Time          `json:"stored_at"`
}

// Store persists entries. Implementations must treat writes as atomic
// whole-entry replacements. Get returns (nil, nil) for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, key string, entry Entry, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Status describes the freshness of a lookup result.
type Status int

const (
	StatusMiss Status = iota
	StatusFresh
	StatusStale
)

// Cache applies the freshness policy on top of a Store. The clock is
// injected so tests control time.
type Cache struct {
	store      Store
	clock      clockwork.Clock
	hardExpiry time.Duration
	staleAfter time.Duration
}

// New creates a cache with the standard policy durations.
func New(store Store, clock clockwork.Clock) *Cache {
	return &Cache{
		store:      store,
		clock:      clock,
		hardExpiry: config.CacheHardExpiry,
		staleAfter: config.CacheStaleAfter,
	}
}

// NewWithPolicy creates a cache with explicit durations.
func NewWithPolicy(store Store, clock clockwork.Clock, hardExpiry, staleAfter time.Duration) *Cache {
	return &Cache{store: store, clock: clock, hardExpiry: hardExpiry, staleAfter: staleAfter}
}

// Get looks up a key and classifies its freshness. Store errors are logged
// and reported as a miss: the cache is an optimization, never a correctness
// dependency.
func (c *Cache) Get(ctx context.Context, key string) (*Entry, Status) {
	entry, err := c.store.Get(ctx, key)
	if err != nil {
		log.Printf("Warning: cache get failed for %s: %v", key, err)
		return nil, StatusMiss
	}
	if entry == nil {
		return nil, StatusMiss
	}

	age := c.clock.Now().Sub(entry.StoredAt)
	switch {
	case age >= c.hardExpiry:
		return nil, StatusMiss
	case age >= c.staleAfter:
		return entry, StatusStale
	default:
		return entry, StatusFresh
	}
}

// Put stores a complete payload under the key. Storage failures are logged
// and swallowed.
func (c *Cache) Put(ctx context.Context, key string, payload types.IntelPayload) {
	entry := Entry{
		Key:      key,
		Payload:  payload,
		StoredAt: c.clock.Now(),
	}
	if err := c.store.Put(ctx, key, entry, c.hardExpiry); err != nil {
		log.Printf("Warning: cache put failed for %s: %v", key, err)
	}
}

// Invalidate drops a key. Used by refresh-request consumers to force a full
// re-run on next access.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		log.Printf("Warning: cache delete failed for %s: %v", key, err)
	}
}
