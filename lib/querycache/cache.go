// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package querycache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ticketdesk/ticketdesk/lib/clock"
	"github.com/ticketdesk/ticketdesk/lib/codec"
)

// Stale times of the query families.
const (
	TicketStaleTime = 30 * time.Second
	EventStaleTime  = 10 * time.Second
)

// Config configures a Cache.
type Config struct {
	// Clock decides staleness. Required.
	Clock clock.Clock

	// CompressThreshold overrides DefaultCompressThreshold. Negative
	// disables compression.
	CompressThreshold int

	// Logger receives debug records for hits, misses, and
	// invalidations. Nil discards them.
	Logger *slog.Logger
}

// Cache holds encoded query results. Safe for concurrent use.
type Cache struct {
	clock     clock.Clock
	threshold int
	logger    *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry
	flights map[string]*flight
}

type entry struct {
	snapshot  snapshot
	fetchedAt time.Time
	staleTime time.Duration

	// invalidated forces a refetch regardless of age.
	invalidated bool
}

// flight is a fetch in progress. Waiters block on done and then read
// snapshot or err.
type flight struct {
	done     chan struct{}
	snapshot snapshot
	err      error

	// waiters counts callers blocked on done.
	waiters int

	// invalidated is set when an Invalidate covering this key runs
	// while the fetch is in flight; the result is then stored already
	// invalidated.
	invalidated bool
}

// New creates an empty cache.
func New(config Config) *Cache {
	threshold := config.CompressThreshold
	if threshold == 0 {
		threshold = DefaultCompressThreshold
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		clock:     config.Clock,
		threshold: threshold,
		logger:    logger,
		entries:   make(map[string]*entry),
		flights:   make(map[string]*flight),
	}
}

// Result describes where a Fetch result came from.
type Result struct {
	// Cached is true when the value was served from a fresh entry
	// without fetching.
	Cached bool

	// Shared is true when the value came from another caller's
	// concurrent fetch of the same key.
	Shared bool

	// Changed is true when a fetch produced data different from the
	// previous entry, or there was no previous entry. Always false
	// for cached results.
	Changed bool

	Fingerprint Fingerprint
}

// Fetch returns the value under key, calling fetch when the entry is
// missing, older than staleTime, or invalidated. Concurrent calls for
// the same key share a single fetch. A failed fetch is returned to
// every waiter and leaves any previous entry in place (still stale),
// except that a fetch ended by the leader's own context cancellation
// is retried by waiters whose contexts are still live.
func Fetch[T any](ctx context.Context, cache *Cache, key string, staleTime time.Duration, fetch func(context.Context) (T, error)) (T, Result, error) {
	var zero T

	cache.mu.Lock()
	for {
		if current, ok := cache.entries[key]; ok && cache.freshLocked(current) {
			cache.mu.Unlock()
			value, err := decode[T](current.snapshot)
			if err != nil {
				return zero, Result{}, fmt.Errorf("query cache %s: %w", key, err)
			}
			cache.logger.Debug("query cache hit", "key", key)
			return value, Result{Cached: true, Fingerprint: current.snapshot.fingerprint}, nil
		}

		pending, ok := cache.flights[key]
		if !ok {
			break
		}
		pending.waiters++
		cache.mu.Unlock()
		select {
		case <-pending.done:
		case <-ctx.Done():
			return zero, Result{}, ctx.Err()
		}
		if pending.err != nil {
			// The leader's context ended; this caller's has not, so it
			// takes over the fetch.
			if isContextError(pending.err) && ctx.Err() == nil {
				cache.logger.Debug("query cache leader cancelled, retrying", "key", key)
				cache.mu.Lock()
				continue
			}
			return zero, Result{}, pending.err
		}
		value, err := decode[T](pending.snapshot)
		if err != nil {
			return zero, Result{}, fmt.Errorf("query cache %s: %w", key, err)
		}
		return value, Result{Shared: true, Fingerprint: pending.snapshot.fingerprint}, nil
	}

	leader := &flight{done: make(chan struct{})}
	cache.flights[key] = leader
	cache.mu.Unlock()

	cache.logger.Debug("query cache miss", "key", key)
	value, fetchErr := fetch(ctx)
	var encoded snapshot
	if fetchErr == nil {
		encoded, fetchErr = cache.encode(value)
	}

	cache.mu.Lock()
	delete(cache.flights, key)
	leader.snapshot = encoded
	leader.err = fetchErr
	changed := false
	if fetchErr == nil {
		previous, existed := cache.entries[key]
		changed = !existed || previous.snapshot.fingerprint != encoded.fingerprint
		cache.entries[key] = &entry{
			snapshot:    encoded,
			fetchedAt:   cache.clock.Now(),
			staleTime:   staleTime,
			invalidated: leader.invalidated,
		}
	}
	close(leader.done)
	waiters := leader.waiters
	cache.mu.Unlock()

	if waiters > 0 {
		cache.logger.Debug("query cache fetch shared", "key", key, "waiters", waiters, "error", fetchErr)
	}

	if fetchErr != nil {
		return zero, Result{}, fetchErr
	}
	return value, Result{Changed: changed, Fingerprint: encoded.fingerprint}, nil
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Get returns the value under key regardless of staleness. The second
// result is false when there is no entry.
func Get[T any](cache *Cache, key string) (T, bool, error) {
	var zero T
	cache.mu.Lock()
	current, ok := cache.entries[key]
	cache.mu.Unlock()
	if !ok {
		return zero, false, nil
	}
	value, err := decode[T](current.snapshot)
	if err != nil {
		return zero, false, fmt.Errorf("query cache %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key as freshly fetched. Mutations use it to
// seed the cache with the server's response (the updated ticket)
// instead of waiting for the next fetch.
func Set[T any](cache *Cache, key string, value T, staleTime time.Duration) error {
	encoded, err := cache.encode(value)
	if err != nil {
		return fmt.Errorf("query cache %s: %w", key, err)
	}
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.entries[key] = &entry{
		snapshot:  encoded,
		fetchedAt: cache.clock.Now(),
		staleTime: staleTime,
	}
	return nil
}

// Invalidate marks every entry whose key matches prefix as stale, so
// the next read refetches. A prefix matches a key equal to it or
// beginning with it followed by "/"; "tickets" matches "tickets/7" but
// not "tickets-trashed". The empty prefix matches everything. Fetches
// in flight for matching keys store their result already invalidated.
// Returns the number of entries marked.
func (c *Cache) Invalidate(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key, current := range c.entries {
		if matchPrefix(key, prefix) && !current.invalidated {
			current.invalidated = true
			count++
		}
	}
	for key, pending := range c.flights {
		if matchPrefix(key, prefix) {
			pending.invalidated = true
		}
	}
	c.logger.Debug("query cache invalidated", "prefix", prefix, "entries", count)
	return count
}

// Remove deletes every entry matching prefix (same matching rule as
// Invalidate). Returns the number removed.
func (c *Cache) Remove(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key := range c.entries {
		if matchPrefix(key, prefix) {
			delete(c.entries, key)
			count++
		}
	}
	return count
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries     int
	Stale       int
	Compressed  int
	StoredBytes int
	RawBytes    int
	Keys        []string
}

// Stats returns a snapshot of cache usage. Keys are sorted.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stats Stats
	for key, current := range c.entries {
		stats.Entries++
		stats.StoredBytes += len(current.snapshot.data)
		stats.RawBytes += current.snapshot.rawSize
		if current.snapshot.compressed {
			stats.Compressed++
		}
		if !c.freshLocked(current) {
			stats.Stale++
		}
		stats.Keys = append(stats.Keys, key)
	}
	sort.Strings(stats.Keys)
	return stats
}

func (c *Cache) freshLocked(current *entry) bool {
	if current.invalidated {
		return false
	}
	return c.clock.Now().Sub(current.fetchedAt) < current.staleTime
}

func (c *Cache) encode(value any) (snapshot, error) {
	raw, err := codec.Marshal(value)
	if err != nil {
		return snapshot{}, fmt.Errorf("encoding snapshot: %w", err)
	}
	return newSnapshot(raw, c.threshold)
}

func decode[T any](encoded snapshot) (T, error) {
	var value T
	raw, err := encoded.bytes()
	if err != nil {
		return value, err
	}
	if err := codec.Unmarshal(raw, &value); err != nil {
		return value, fmt.Errorf("decoding snapshot: %w", err)
	}
	return value, nil
}

func matchPrefix(key, prefix string) bool {
	if prefix == "" || key == prefix {
		return true
	}
	return strings.HasPrefix(key, strings.TrimSuffix(prefix, "/")+"/")
}
