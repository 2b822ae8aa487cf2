package querycache

import "sync"

// Optimistic is the write protocol for one key: Begin snapshots the entry and
// cancels any read in progress, Apply or Remove change the cache before the
// server answers, and exactly one of Commit, CommitWith or Rollback finishes it.
// Values are replaced, never modified in place, so a snapshot stays intact.
type Optimistic[T any] struct {
	cache   *Cache
	key     Key
	snap    entry
	existed bool

	mu   sync.Mutex
	done bool
}

// Begin starts an optimistic write on key.
func Begin[T any](c *Cache, key Key) *Optimistic[T] {
	o := &Optimistic[T]{cache: c, key: key}

	c.mu.Lock()
	var events []Event
	if e, ok := c.entries[key.String()]; ok {
		c.cancelInflightLocked(e)
		o.snap = e.clone()
		o.existed = true
		events = append(events, Event{Entry: e.view(c.now())})
	}
	c.slotLocked(key).pending++
	c.mu.Unlock()
	c.notify(events)
	return o
}

func (o *Optimistic[T]) Key() Key {
	return o.key
}

// Snapshot returns the value held before the write began.
func (o *Optimistic[T]) Snapshot() (T, bool) {
	var zero T
	if !o.existed || !o.snap.hasValue {
		return zero, false
	}
	t, err := cast[T](o.key, o.snap.value)
	if err != nil {
		return zero, false
	}
	return t, true
}

// Apply replaces the cached value with fn(current). Nothing cached means nothing
// to update, and Apply reports false.
func (o *Optimistic[T]) Apply(fn func(T) T) bool {
	c := o.cache
	c.mu.Lock()
	e, ok := c.entries[o.key.String()]
	if !ok || !e.hasValue {
		c.mu.Unlock()
		return false
	}
	cur, err := cast[T](o.key, e.value)
	if err != nil {
		c.mu.Unlock()
		return false
	}
	c.cancelInflightLocked(e)
	e.value = fn(cur)
	e.optimistic = true
	events := []Event{{Entry: e.view(c.now())}}
	c.mu.Unlock()
	c.notify(events)
	return true
}

// Remove evicts the key optimistically, e.g. for a delete.
func (o *Optimistic[T]) Remove() {
	o.cache.Remove(o.key)
}

func (o *Optimistic[T]) finish() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done {
		return false
	}
	o.done = true
	return true
}

// release drops this write from the entry's pending count.
func (o *Optimistic[T]) release() {
	c := o.cache
	c.mu.Lock()
	if e, ok := c.entries[o.key.String()]; ok && e.pending > 0 {
		e.pending--
	}
	c.mu.Unlock()
}

// Commit marks the key and every prefix in invalidate stale, so the next read
// fetches the server's truth instead of trusting the optimistic value.
func (o *Optimistic[T]) Commit(invalidate ...Key) {
	if !o.finish() {
		return
	}
	o.release()
	o.cache.Invalidate(o.key)
	for _, prefix := range invalidate {
		o.cache.Invalidate(prefix)
	}
}

// CommitWith stores a server-confirmed value for the key, then invalidates the prefixes.
func (o *Optimistic[T]) CommitWith(value T, invalidate ...Key) {
	if !o.finish() {
		return
	}
	o.release()
	o.cache.Set(o.key, value)
	for _, prefix := range invalidate {
		if o.key.HasPrefix(prefix) {
			continue
		}
		o.cache.Invalidate(prefix)
	}
}

// Rollback restores the entry as it was at Begin, including absence. A value
// that other writers touched in the meantime comes back stale: optimistic only
// while some of them are still pending, and due for a refetch once another
// writer committed.
func (o *Optimistic[T]) Rollback() {
	if !o.finish() {
		return
	}
	c := o.cache

	c.mu.Lock()
	e := c.slotLocked(o.key)
	c.cancelInflightLocked(e)
	version := e.version
	if version <= o.snap.version {
		version = o.snap.version + 1
	}
	pending := max(e.pending-1, 0)
	invalidations := e.invalidations

	var events []Event
	if o.existed {
		*e = o.snap
		e.version = version
		e.pending = pending
		e.invalidations = invalidations
		if e.optimistic && pending == 0 {
			e.optimistic = false
			e.status = StatusStale
		}
		if e.hasValue && invalidations != o.snap.invalidations {
			e.status = StatusStale
		}
		events = append(events, Event{Entry: e.view(c.now())})
	} else {
		c.tombstoneLocked(e)
		e.version = version
		e.pending = pending
		events = append(events, Event{Entry: e.view(c.now()), Removed: true})
	}
	c.mu.Unlock()
	c.notify(events)
}
