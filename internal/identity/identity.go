// Package identity holds the authenticated-user-id cache. It is an
// explicit, caller-owned object rather than module-level state: the
// composition root constructs one, hands it to the remote storage backend,
// and invalidates it on auth state changes.
package identity

import "errors"

// ErrNoIdentity is returned when no user identity can be resolved.
var ErrNoIdentity = errors.New("no user identity available")

// Cache resolves the user id once and reuses the value until Invalidate is
// called. Resolution failures are not cached so a later sign-in is picked
// up on the next call. Single-threaded execution makes the unsynchronized
// fields safe.
type Cache struct {
	resolve func() (string, error)
	cached  string
	valid   bool
}

// NewCache wraps a resolver, typically one reading the configured user from
// the environment or a credential helper.
func NewCache(resolve func() (string, error)) *Cache {
	return &Cache{resolve: resolve}
}

// Static returns a cache pinned to a known user id. An empty id yields a
// cache that never resolves.
func Static(userID string) *Cache {
	return NewCache(func() (string, error) {
		if userID == "" {
			return "", ErrNoIdentity
		}
		return userID, nil
	})
}

// UserID returns the cached identity, resolving it on first use.
func (c *Cache) UserID() (string, error) {
	if c.valid {
		return c.cached, nil
	}
	id, err := c.resolve()
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", ErrNoIdentity
	}
	c.cached = id
	c.valid = true
	return id, nil
}

// Invalidate clears the cached value; the next UserID call re-resolves.
// Call this whenever the auth state changes.
func (c *Cache) Invalidate() {
	c.cached = ""
	c.valid = false
}
