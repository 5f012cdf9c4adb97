package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/docqa/internal/entity"
	"github.com/patrickmn/go-cache"
)

// SessionRepository defines the interface for chat session storage
type SessionRepository interface {
	Get(ctx context.Context, id string) (entity.Session, error)
	Save(ctx context.Context, session entity.Session) error
	Delete(ctx context.Context, id string) error
}

var _ SessionRepository = &SessionMemory{}

// SessionMemory keeps sessions in process memory. Idle sessions expire after
// the TTL; nothing survives a restart.
type SessionMemory struct {
	cache *cache.Cache
}

func NewSessionMemory(ttl, cleanupInterval time.Duration) *SessionMemory {
	return &SessionMemory{
		cache: cache.New(ttl, cleanupInterval),
	}
}

// Get returns a copy, so callers can never mutate the stored session in place
func (r *SessionMemory) Get(_ context.Context, id string) (entity.Session, error) {
	v, ok := r.cache.Get(id)
	if !ok {
		return entity.Session{}, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	return v.(entity.Session).Clone(), nil
}

// Save stores the session and restarts its TTL
func (r *SessionMemory) Save(_ context.Context, session entity.Session) error {
	if session.ID == "" {
		return fmt.Errorf("%w: session id", entity.ErrMissingField)
	}
	r.cache.Set(session.ID, session.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionMemory) Delete(_ context.Context, id string) error {
	if _, ok := r.cache.Get(id); !ok {
		return fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	r.cache.Delete(id)
	return nil
}

func (r *SessionMemory) Count() int {
	return r.cache.ItemCount()
}
