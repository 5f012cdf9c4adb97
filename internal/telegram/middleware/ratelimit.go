package middleware

import (
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	inactiveUserTTL      = time.Hour
	inactiveUserCleanup  = 10 * time.Minute
	rateLimitWarnEvery   = 30 * time.Second
	rateLimitWarnMessage = "⚠️ Too many requests. Please wait a little."
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	tokens        float64
	lastRefill    time.Time
	lastWarningAt time.Time
	mu            sync.Mutex
}

// Sender is the part of the bot API the middlewares talk back through
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// RateLimiterMiddleware implements token bucket rate limiting per user.
// Buckets of users idle for an hour are evicted by the cache janitor.
type RateLimiterMiddleware struct {
	limits     *cache.Cache
	maxTokens  float64 // Maximum tokens in bucket
	refillRate float64 // Tokens added per second
	logger     *zap.Logger
	api        Sender
	now        func() time.Time
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	api Sender,
) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		limits:     cache.New(inactiveUserTTL, inactiveUserCleanup),
		maxTokens:  float64(burstSize),
		refillRate: float64(requestsPerMinute) / 60.0, // tokens per second
		logger:     logger,
		api:        api,
		now:        time.Now,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID, ok := updateIDs(update)
	if !ok {
		// Unknown update type, allow it
		next(update)
		return
	}

	if !rl.allowRequest(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

func (rl *RateLimiterMiddleware) bucket(userID int64) *userLimit {
	key := strconv.FormatInt(userID, 10)
	fresh := &userLimit{tokens: rl.maxTokens, lastRefill: rl.now()}

	// Add only succeeds for the first caller, everyone else reads the winner
	if err := rl.limits.Add(key, fresh, cache.DefaultExpiration); err == nil {
		return fresh
	}
	if v, found := rl.limits.Get(key); found {
		rl.limits.SetDefault(key, v)
		return v.(*userLimit)
	}
	rl.limits.SetDefault(key, fresh)
	return fresh
}

// allowRequest checks if request is allowed under rate limit
func (rl *RateLimiterMiddleware) allowRequest(userID, chatID int64) bool {
	limit := rl.bucket(userID)

	limit.mu.Lock()
	defer limit.mu.Unlock()

	now := rl.now()

	// Refill tokens based on elapsed time
	elapsed := now.Sub(limit.lastRefill).Seconds()
	limit.tokens += elapsed * rl.refillRate
	if limit.tokens > rl.maxTokens {
		limit.tokens = rl.maxTokens
	}
	limit.lastRefill = now

	if limit.tokens >= 1.0 {
		limit.tokens -= 1.0
		return true
	}

	if now.Sub(limit.lastWarningAt) > rateLimitWarnEvery {
		limit.lastWarningAt = now
		rl.sendRateLimitWarning(chatID)
	}

	return false
}

// sendRateLimitWarning sends a warning message to the user
func (rl *RateLimiterMiddleware) sendRateLimitWarning(chatID int64) {
	if rl.api == nil {
		return
	}

	msg := tgbotapi.NewMessage(chatID, rateLimitWarnMessage)
	if _, err := rl.api.Send(msg); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

func updateIDs(update tgbotapi.Update) (userID, chatID int64, ok bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.From.ID, update.CallbackQuery.Message.Chat.ID, true
	default:
		return 0, 0, false
	}
}
