package querycache

import "time"

type Status int

const (
	StatusAbsent Status = iota
	StatusLoading
	StatusFresh
	StatusStale
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusLoading:
		return "loading"
	case StatusFresh:
		return "fresh"
	case StatusStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Entry is a read-only view of a cache slot.
type Entry struct {
	Key        Key
	Status     Status
	Value      any
	HasValue   bool
	Version    uint64
	UpdatedAt  time.Time
	Optimistic bool
}

// Event is delivered to subscribers after an entry changes.
type Event struct {
	Entry
	Removed bool
}

type entry struct {
	key        Key
	status     Status
	prevStatus Status
	value      any
	hasValue   bool
	version    uint64
	updatedAt  time.Time
	staleTime  time.Duration
	optimistic bool

	// pending counts optimistic writes begun and not yet finished.
	pending int
	// invalidations counts Invalidate calls, so a rollback can tell that
	// another writer committed in the meantime.
	invalidations uint64

	cancel   func()
	inflight bool
}

func (e *entry) view(now time.Time) Entry {
	status := e.status
	if status == StatusFresh && e.staleTime > 0 && e.expired(now, e.staleTime) {
		status = StatusStale
	}
	return Entry{
		Key:        e.key,
		Status:     status,
		Value:      e.value,
		HasValue:   e.hasValue,
		Version:    e.version,
		UpdatedAt:  e.updatedAt,
		Optimistic: e.optimistic,
	}
}

// expired treats a negative staleTime as never stale.
func (e *entry) expired(now time.Time, staleTime time.Duration) bool {
	if staleTime < 0 {
		return false
	}
	return now.Sub(e.updatedAt) >= staleTime
}

// clone copies the slot for a snapshot, minus any in-flight bookkeeping.
func (e *entry) clone() entry {
	c := *e
	c.cancel = nil
	c.inflight = false
	return c
}
