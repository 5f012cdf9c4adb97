package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// ChatBindingRepository maps a front-end chat (e.g. a Telegram chat) to its session
type ChatBindingRepository interface {
	Get(ctx context.Context, chatID int64) (string, bool)
	Set(ctx context.Context, chatID int64, sessionID string)
	Delete(ctx context.Context, chatID int64)
}

var _ ChatBindingRepository = &ChatBindingMemory{}

type ChatBindingMemory struct {
	cache *cache.Cache
}

// NewChatBindingMemory should use the session TTL so a binding never outlives its session for long
func NewChatBindingMemory(ttl, cleanupInterval time.Duration) *ChatBindingMemory {
	return &ChatBindingMemory{
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (r *ChatBindingMemory) Get(_ context.Context, chatID int64) (string, bool) {
	v, ok := r.cache.Get(bindingKey(chatID))
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (r *ChatBindingMemory) Set(_ context.Context, chatID int64, sessionID string) {
	r.cache.Set(bindingKey(chatID), sessionID, cache.DefaultExpiration)
}

func (r *ChatBindingMemory) Delete(_ context.Context, chatID int64) {
	r.cache.Delete(bindingKey(chatID))
}

func bindingKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
