// Package session keeps one aggregation engine per visitor.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"domain-metrics/internal/usecases"
)

// EngineFactory builds a fresh engine for a new visitor.
type EngineFactory func() *usecases.Engine

// Store maps visitor ids to their engines. An entry expires after ttl without
// access. Only engine state lives here; records are never shared between
// visitors or reused across submissions.
type Store struct {
	engines   *cache.Cache
	ttl       time.Duration
	newEngine EngineFactory
}

// NewStore creates a store whose entries expire after ttl of inactivity.
func NewStore(ttl time.Duration, newEngine EngineFactory) *Store {
	cleanup := ttl / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &Store{
		engines:   cache.New(ttl, cleanup),
		ttl:       ttl,
		newEngine: newEngine,
	}
}

// Get returns the engine for id if it is still alive, extending its lifetime.
func (s *Store) Get(id string) (*usecases.Engine, bool) {
	v, ok := s.engines.Get(id)
	if !ok {
		return nil, false
	}
	engine := v.(*usecases.Engine)
	s.engines.Set(id, engine, cache.DefaultExpiration)
	return engine, true
}

// Acquire returns the engine for id, creating one under a new id when id is
// empty, malformed or expired. The returned id is the one to hand back to
// the visitor.
func (s *Store) Acquire(id string) (string, *usecases.Engine) {
	if _, err := uuid.Parse(id); err == nil {
		if engine, ok := s.Get(id); ok {
			return id, engine
		}
	}

	for {
		id = uuid.NewString()
		engine := s.newEngine()
		if err := s.engines.Add(id, engine, cache.DefaultExpiration); err == nil {
			return id, engine
		}
	}
}

// Len returns the number of live sessions, including expired entries not yet
// cleaned up.
func (s *Store) Len() int {
	return s.engines.ItemCount()
}

// TTL returns the inactivity timeout.
func (s *Store) TTL() time.Duration {
	return s.ttl
}
