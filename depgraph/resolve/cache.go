package resolve

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheKey identifies one resolution request. Namespace separates the
// script resolver from the per-dialect style resolvers.
type CacheKey struct {
	Namespace string
	Specifier string
	Importer  string
}

// Outcome is a cached resolution result. Misses are cached too.
type Outcome struct {
	Path     string
	Resolved bool
}

// ResultCache stores resolution outcomes. Implementations must be safe for
// concurrent use.
type ResultCache interface {
	Get(key CacheKey) (Outcome, bool)
	Add(key CacheKey, outcome Outcome)
}

// Cache is the per-walk outcome cache.
type Cache struct {
	mu       sync.RWMutex
	outcomes map[CacheKey]Outcome
}

func NewCache() *Cache {
	return &Cache{outcomes: make(map[CacheKey]Outcome)}
}

func (c *Cache) Get(key CacheKey) (Outcome, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	outcome, ok := c.outcomes[key]
	return outcome, ok
}

func (c *Cache) Add(key CacheKey, outcome Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes[key] = outcome
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.outcomes)
}

// DefaultSessionSize bounds a Session created with a non-positive size.
const DefaultSessionSize = 4096

// Session is a caller-owned, long-lived outcome cache shared by successive
// walks over the same configuration, for example in watch mode. Call
// Invalidate whenever files change on disk.
type Session struct {
	outcomes *lru.Cache[CacheKey, Outcome]
}

func NewSession(size int) (*Session, error) {
	if size <= 0 {
		size = DefaultSessionSize
	}
	outcomes, err := lru.New[CacheKey, Outcome](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &Session{outcomes: outcomes}, nil
}

func (s *Session) Get(key CacheKey) (Outcome, bool) {
	return s.outcomes.Get(key)
}

func (s *Session) Add(key CacheKey, outcome Outcome) {
	s.outcomes.Add(key, outcome)
}

// Invalidate drops every cached outcome.
func (s *Session) Invalidate() {
	s.outcomes.Purge()
}

func (s *Session) Len() int {
	return s.outcomes.Len()
}
