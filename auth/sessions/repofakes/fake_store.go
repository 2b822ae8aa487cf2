package repofakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/lankaconnect-client/auth/sessions"
	"github.com/jrsteele09/lankaconnect-client/internal/errors"
)

var (
	_ sessions.Store   = (*FakeStore)(nil)
	_ sessions.Watcher = (*FakeStore)(nil)
)

// FakeStore is an in-memory Store. Failing makes every call return ErrStoreUnavailable.
type FakeStore struct {
	values   map[string]string
	watchers []func()
	failing  bool
	lock     sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{values: make(map[string]string)}
}

func (s *FakeStore) Get(key string) (string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.failing {
		return "", errors.ErrStoreUnavailable
	}
	v, ok := s.values[key]
	if !ok {
		return "", errors.ErrKeyNotFound
	}
	return v, nil
}

func (s *FakeStore) Set(key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.failing {
		return errors.ErrStoreUnavailable
	}
	s.values[key] = value
	return nil
}

func (s *FakeStore) Remove(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.failing {
		return errors.ErrStoreUnavailable
	}
	delete(s.values, key)
	return nil
}

func (s *FakeStore) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.failing {
		return errors.ErrStoreUnavailable
	}
	s.values = make(map[string]string)
	return nil
}

// Snapshot copies the current contents.
func (s *FakeStore) Snapshot() map[string]string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *FakeStore) SetFailing(failing bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failing = failing
}

// Watch registers onChange until ctx is done.
func (s *FakeStore) Watch(ctx context.Context, onChange func()) error {
	s.lock.Lock()
	idx := len(s.watchers)
	s.watchers = append(s.watchers, onChange)
	s.lock.Unlock()

	<-ctx.Done()

	s.lock.Lock()
	s.watchers[idx] = nil
	s.lock.Unlock()
	return nil
}

// ExternalWrite sets key as another process would, then notifies watchers.
func (s *FakeStore) ExternalWrite(key, value string) {
	s.lock.Lock()
	if value == "" {
		delete(s.values, key)
	} else {
		s.values[key] = value
	}
	watchers := append([]func(){}, s.watchers...)
	s.lock.Unlock()

	for _, fn := range watchers {
		if fn != nil {
			fn()
		}
	}
}

// Watching reports how many watchers are registered.
func (s *FakeStore) Watching() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	n := 0
	for _, fn := range s.watchers {
		if fn != nil {
			n++
		}
	}
	return n
}
