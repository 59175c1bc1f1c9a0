package retrieval

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/civiclens/tribuna/pkg/tribuna/vectorindex"
)

// BuildFunc constructs the embedding artifacts for a session. A nil
// index in the return value means the feature is unavailable; the cache
// remembers that too, so a broken build is not retried within the
// session.
type BuildFunc func(ctx context.Context) (vectorindex.Embedder, *vectorindex.FlatIndex)

type session struct {
	embedder vectorindex.Embedder
	index    *vectorindex.FlatIndex
	built    bool
}

// Cache holds per-session embedding artifacts with get-or-build
// semantics. There is no global singleton: each dashboard session owns
// its handles, and a fresh session is the only way to pick up new data.
type Cache struct {
	mu       sync.Mutex
	sessions map[string]*session
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{sessions: make(map[string]*session)}
}

// NewSessionID mints a session identifier.
func NewSessionID() string {
	return ulid.Make().String()
}

// GetOrBuild returns the session's cached artifacts, invoking build
// exactly once per session id.
func (c *Cache) GetOrBuild(ctx context.Context, sessionID string, build BuildFunc) (vectorindex.Embedder, *vectorindex.FlatIndex) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[sessionID]
	if !ok {
		s = &session{}
		c.sessions[sessionID] = s
	}
	if !s.built {
		s.embedder, s.index = build(ctx)
		s.built = true
	}
	return s.embedder, s.index
}

// Drop forgets a session's artifacts.
func (c *Cache) Drop(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
}
