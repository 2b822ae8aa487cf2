package querycache

import (
	"net/url"
	"strings"
)

// Key identifies a cached read. The same logical query always produces the same
// Key, and keys form a hierarchy so invalidation can target a prefix.
type Key struct {
	parts []string
}

func NewKey(parts ...string) Key {
	return Key{parts: append([]string(nil), parts...)}
}

// With returns a child key. k is not modified.
func (k Key) With(parts ...string) Key {
	out := make([]string, 0, len(k.parts)+len(parts))
	out = append(out, k.parts...)
	out = append(out, parts...)
	return Key{parts: out}
}

// WithParams appends params in canonical (sorted) form, so parameter order never
// produces a different key. Empty params still add a segment, which keeps
// list({}) distinct from the list prefix.
func (k Key) WithParams(params url.Values) Key {
	return k.With(params.Encode())
}

func (k Key) Parts() []string {
	return append([]string(nil), k.parts...)
}

func (k Key) Len() int {
	return len(k.parts)
}

// HasPrefix reports whether every segment of prefix matches the start of k.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix.parts) > len(k.parts) {
		return false
	}
	for i, p := range prefix.parts {
		if k.parts[i] != p {
			return false
		}
	}
	return true
}

func (k Key) Equal(other Key) bool {
	return len(k.parts) == len(other.parts) && k.HasPrefix(other)
}

// String is the canonical map index of the key.
func (k Key) String() string {
	escaped := make([]string, len(k.parts))
	for i, p := range k.parts {
		escaped[i] = url.PathEscape(p)
	}
	return strings.Join(escaped, "/")
}
