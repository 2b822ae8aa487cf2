package sessions

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jrsteele09/lankaconnect-client/internal/errors"
	"github.com/rs/zerolog"
)

const (
	fileName      = "auth.json"
	watchDebounce = 50 * time.Millisecond
)

var (
	_ Store   = (*FileStore)(nil)
	_ Watcher = (*FileStore)(nil)
)

// FileStore keeps every key in one JSON document, <dir>/auth.json, readable only
// by the owner. Writes replace the file atomically.
type FileStore struct {
	path   string
	logger zerolog.Logger
	mu     sync.Mutex
}

type FileStoreOption func(*FileStore)

func WithLogger(logger zerolog.Logger) FileStoreOption {
	return func(s *FileStore) {
		s.logger = logger
	}
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, opts ...FileStoreOption) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(errors.ErrStoreUnavailable, "create state dir %s: %v", dir, err)
	}
	s := &FileStore{
		path:   filepath.Join(dir, fileName),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", errors.Wrapf(errors.ErrKeyNotFound, "%s", key)
	}
	return v, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

// Clear deletes the file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrStoreUnavailable, "remove %s: %v", s.path, err)
	}
	return nil
}

// load treats a missing file as empty. A corrupt file is reported, not discarded.
func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrStoreUnavailable, "read %s: %v", s.path, err)
	}
	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrapf(errors.ErrStoreUnavailable, "decode %s: %v", s.path, err)
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".auth-*.json")
	if err != nil {
		return errors.Wrapf(errors.ErrStoreUnavailable, "create temp file: %v", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(errors.ErrStoreUnavailable, "chmod temp file: %v", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(errors.ErrStoreUnavailable, "write temp file: %v", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(errors.ErrStoreUnavailable, "sync temp file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(errors.ErrStoreUnavailable, "close temp file: %v", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.Wrapf(errors.ErrStoreUnavailable, "replace %s: %v", s.path, err)
	}
	return nil
}

// Watch calls onChange after the file is written, replaced or removed, including by
// this process. Bursts of events are debounced into one call.
func (s *FileStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrapf(err, "create watcher")
	}
	defer watcher.Close()

	// Watch the directory, the file itself is replaced on every write.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(s.path))
	}

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.logger.Debug().Str("op", event.Op.String()).Msg("session store changed")
			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, onChange)
			timerMu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn().Err(err).Msg("session store watcher error")
		}
	}
}
