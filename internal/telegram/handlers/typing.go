package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// typingInterval stays under the 5 second lifetime of a chat action
const typingInterval = 4 * time.Second

// TypingNotifier sends periodic "typing" actions while the model is working
type TypingNotifier struct {
	bot      API
	chatID   int64
	done     chan struct{}
	logger   *zap.Logger
	stopOnce sync.Once
}

// StartTyping begins sending typing indicators until Stop or ctx cancellation
func StartTyping(ctx context.Context, bot API, chatID int64, logger *zap.Logger) *TypingNotifier {
	t := &TypingNotifier{
		bot:    bot,
		chatID: chatID,
		done:   make(chan struct{}),
		logger: logger,
	}

	t.sendAction()

	go func() {
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.sendAction()
			case <-t.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return t
}

// Stop stops sending typing indicators. Safe to call more than once.
func (t *TypingNotifier) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
}

func (t *TypingNotifier) sendAction() {
	action := tgbotapi.NewChatAction(t.chatID, tgbotapi.ChatTyping)
	if _, err := t.bot.Request(action); err != nil {
		t.logger.Warn("failed to send typing action",
			zap.Error(err),
			zap.Int64("chat_id", t.chatID),
		)
	}
}
