package middleware

import (
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func textUpdate(userID int64) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: userID * 10},
			Text: "hello",
		},
	}
}

func TestRateLimiter_Burst(t *testing.T) {
	sender := &recordingSender{}
	rl := NewRateLimiterMiddleware(60, 2, zap.NewNop(), sender)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	passed := 0
	next := func(tgbotapi.Update) { passed++ }

	for i := 0; i < 4; i++ {
		rl.Handle(textUpdate(1), next)
	}
	if passed != 2 {
		t.Errorf("expected burst of 2, got %d", passed)
	}
	if len(sender.sent) != 1 || sender.sent[0].ChatID != 10 {
		t.Errorf("expected one warning to chat 10, got %+v", sender.sent)
	}

	// another user has its own bucket
	rl.Handle(textUpdate(2), next)
	if passed != 3 {
		t.Errorf("second user must not be limited, passed=%d", passed)
	}

	// 60 per minute refills one token per second
	now = now.Add(time.Second)
	rl.Handle(textUpdate(1), next)
	if passed != 4 {
		t.Errorf("expected refill after one second, passed=%d", passed)
	}
}

func TestRecovery(t *testing.T) {
	sender := &recordingSender{}
	m := NewRecoveryMiddleware(zap.NewNop(), sender)

	m.Handle(textUpdate(3), func(tgbotapi.Update) { panic("boom") })

	if len(sender.sent) != 1 || sender.sent[0].ChatID != 30 || sender.sent[0].Text != panicMessage {
		t.Errorf("expected apology to chat 30, got %+v", sender.sent)
	}
}

func TestLogging_CallsNext(t *testing.T) {
	called := false
	NewLoggingMiddleware(zap.NewNop()).Handle(textUpdate(1), func(tgbotapi.Update) { called = true })
	if !called {
		t.Error("next was not called")
	}
}
