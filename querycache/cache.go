// Package querycache is an explicit key to entry cache for API reads. Concurrent
// reads of one key share a single fetch, writes bump a per-key version so late
// reads are discarded, and mutations use the Optimistic protocol.
package querycache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jrsteele09/lankaconnect-client/apierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for a key. ctx is cancelled when the read is superseded.
type FetchFunc func(ctx context.Context) (any, error)

type subscription struct {
	prefix Key
	fn     func(Event)
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
	subs    map[int]subscription
	nextSub int

	now    func() time.Time
	logger zerolog.Logger
}

type Option func(*Cache)

// WithClock replaces time.Now, for staleness tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		subs:    make(map[int]subscription),
		now:     time.Now,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached value for key when it is fresh, otherwise calls fn once
// for all concurrent callers. A negative staleTime means the value never goes stale.
func Fetch[T any](ctx context.Context, c *Cache, key Key, staleTime time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Fetch(ctx, key, staleTime, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	return cast[T](key, v)
}

// Get returns the cached value for key without fetching.
func Get[T any](c *Cache, key Key) (T, bool) {
	var zero T
	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if !ok || !e.hasValue {
		c.mu.Unlock()
		return zero, false
	}
	v := e.value
	c.mu.Unlock()

	t, err := cast[T](key, v)
	if err != nil {
		return zero, false
	}
	return t, true
}

func cast[T any](key Key, v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("querycache: value for %s is %T, not %T", key, v, zero)
	}
	return t, nil
}

func (c *Cache) Fetch(ctx context.Context, key Key, staleTime time.Duration, fn FetchFunc) (any, error) {
	id := key.String()

	c.mu.Lock()
	e := c.slotLocked(key)
	now := c.now()
	if e.hasValue && e.optimistic && e.pending > 0 {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	if e.hasValue && e.status == StatusFresh && !e.expired(now, staleTime) {
		v := e.value
		c.mu.Unlock()
		c.logger.Debug().Str("key", id).Msg("cache hit")
		return v, nil
	}

	var events []Event
	if e.status != StatusLoading {
		e.prevStatus = e.status
		e.status = StatusLoading
		events = append(events, Event{Entry: e.view(now)})
	}
	version := e.version
	parent := context.WithoutCancel(ctx)
	c.mu.Unlock()
	c.notify(events)

	c.logger.Debug().Str("key", id).Uint64("version", version).Msg("cache miss")
	ch := c.group.DoChan(id+"#"+strconv.FormatUint(version, 10), func() (any, error) {
		fctx, cancel, ok := c.startFlight(key, version, parent)
		if !ok {
			return c.superseded(key, nil, apierror.NewNetwork("Request cancelled", context.Canceled))
		}
		defer cancel()
		v, err := fn(fctx)
		return c.finishFlight(key, version, staleTime, v, err)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, apierror.NewNetwork("Request cancelled", ctx.Err())
	}
}

func (c *Cache) slotLocked(key Key) *entry {
	id := key.String()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{key: key, status: StatusAbsent}
		c.entries[id] = e
	}
	return e
}

// startFlight registers the cancel func for the flight, unless the key has moved on.
func (c *Cache) startFlight(key Key, version uint64, parent context.Context) (context.Context, context.CancelFunc, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok || e.version != version {
		return nil, nil, false
	}
	fctx, cancel := context.WithCancel(parent)
	e.cancel = cancel
	e.inflight = true
	return fctx, cancel, true
}

func (c *Cache) finishFlight(key Key, version uint64, staleTime time.Duration, v any, err error) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if !ok || e.version != version {
		c.mu.Unlock()
		c.logger.Debug().Str("key", key.String()).Uint64("version", version).Msg("discarding superseded read")
		return c.superseded(key, v, err)
	}

	e.inflight = false
	e.cancel = nil
	now := c.now()
	if err != nil {
		// No error state, the slot reverts to its last known-good status.
		e.status = e.prevStatus
		if !e.hasValue {
			e.status = StatusAbsent
		}
		events := []Event{{Entry: e.view(now)}}
		c.mu.Unlock()
		c.notify(events)
		return nil, err
	}

	e.value = v
	e.hasValue = true
	e.status = StatusFresh
	e.optimistic = false
	e.updatedAt = now
	e.staleTime = staleTime
	e.version++
	events := []Event{{Entry: e.view(now)}}
	c.mu.Unlock()
	c.notify(events)
	return v, nil
}

// superseded answers callers of a discarded read with whatever the cache holds now.
func (c *Cache) superseded(key Key, v any, err error) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if ok && e.hasValue {
		cur := e.value
		c.mu.Unlock()
		return cur, nil
	}
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// cancelInflightLocked aborts any read for e and moves e to a new version, so a
// late response can never land.
func (c *Cache) cancelInflightLocked(e *entry) {
	if e.inflight && e.cancel != nil {
		e.cancel()
	}
	if e.status == StatusLoading {
		e.status = e.prevStatus
		if !e.hasValue {
			e.status = StatusAbsent
		}
	}
	e.inflight = false
	e.cancel = nil
	e.version++
}

// CancelInflight aborts the read in progress for key, if any.
func (c *Cache) CancelInflight(key Key) {
	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if !ok {
		c.mu.Unlock()
		return
	}
	c.cancelInflightLocked(e)
	events := []Event{{Entry: e.view(c.now())}}
	c.mu.Unlock()
	c.notify(events)
}

// Set stores a fresh server value for key.
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	e := c.slotLocked(key)
	c.cancelInflightLocked(e)
	now := c.now()
	e.value = value
	e.hasValue = true
	e.status = StatusFresh
	e.optimistic = false
	e.updatedAt = now
	events := []Event{{Entry: e.view(now)}}
	c.mu.Unlock()
	c.notify(events)
}

// Entry returns a view of the slot for key. Missing keys report StatusAbsent.
func (c *Cache) Entry(key Key) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return Entry{Key: key, Status: StatusAbsent}
	}
	return e.view(c.now())
}

// Keys lists every key that holds a value or has a read in progress.
func (c *Cache) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]Key, 0, len(c.entries))
	for _, e := range c.entries {
		if e.status != StatusAbsent {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Remove evicts the value for key, cancelling any read in progress. The slot is
// kept as a tombstone so its version keeps increasing.
func (c *Cache) Remove(key Key) {
	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if !ok {
		c.mu.Unlock()
		return
	}
	c.cancelInflightLocked(e)
	c.tombstoneLocked(e)
	events := []Event{{Entry: e.view(c.now()), Removed: true}}
	c.mu.Unlock()
	c.notify(events)
}

func (c *Cache) tombstoneLocked(e *entry) {
	e.value = nil
	e.hasValue = false
	e.status = StatusAbsent
	e.prevStatus = StatusAbsent
	e.optimistic = false
	e.updatedAt = c.now()
}

// Invalidate marks every entry under prefix stale so the next read refetches it.
// Reads in progress under prefix are cancelled. It returns the affected keys.
func (c *Cache) Invalidate(prefix Key) []Key {
	c.mu.Lock()
	now := c.now()
	var (
		keys   []Key
		events []Event
	)
	for _, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		c.cancelInflightLocked(e)
		e.optimistic = false
		e.invalidations++
		if e.hasValue {
			e.status = StatusStale
		} else {
			e.status = StatusAbsent
		}
		keys = append(keys, e.key)
		events = append(events, Event{Entry: e.view(now)})
	}
	c.mu.Unlock()
	c.notify(events)

	if len(keys) > 0 {
		c.logger.Debug().Str("prefix", prefix.String()).Int("entries", len(keys)).Msg("invalidated")
	}
	return keys
}

// Prune evicts entries not written within maxAge that have no read in progress.
func (c *Cache) Prune(maxAge time.Duration) int {
	c.mu.Lock()
	now := c.now()
	var events []Event
	for id, e := range c.entries {
		if e.inflight || e.pending > 0 || now.Sub(e.updatedAt) < maxAge {
			continue
		}
		delete(c.entries, id)
		events = append(events, Event{Entry: Entry{Key: e.key, Status: StatusAbsent, Version: e.version}, Removed: true})
	}
	c.mu.Unlock()
	c.notify(events)
	return len(events)
}

// Subscribe calls fn after any change to an entry under prefix. Callbacks run
// outside the cache lock and may call back into the cache.
func (c *Cache) Subscribe(prefix Key, fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = subscription{prefix: prefix, fn: fn}
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Cache) notify(events []Event) {
	if len(events) == 0 {
		return
	}
	c.mu.Lock()
	subs := make([]subscription, 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s)
	}
	c.mu.Unlock()

	for _, ev := range events {
		for _, s := range subs {
			if ev.Key.HasPrefix(s.prefix) {
				s.fn(ev)
			}
		}
	}
}
