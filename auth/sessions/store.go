// Package sessions persists the client's auth state between runs.
package sessions

import (
	"context"
)

// Keys under which the session is persisted.
const (
	KeyAccessToken  = "lankaconnect_access_token"
	KeyRefreshToken = "lankaconnect_refresh_token"
	KeyUser         = "lankaconnect_user"
)

// Keys lists every key the session writes.
var Keys = []string{KeyAccessToken, KeyRefreshToken, KeyUser}

// Store is a small string key/value store. Get returns errors.ErrKeyNotFound for a
// missing key.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
	Clear() error
}

// Watcher is implemented by stores that can report changes made by another process.
// Watch blocks until ctx is done.
type Watcher interface {
	Watch(ctx context.Context, onChange func()) error
}
