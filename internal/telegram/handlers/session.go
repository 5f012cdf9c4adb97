package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/docqa/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// SessionResolver finds the chat session bound to a Telegram chat, creating
// one on first contact or after the old one expired
type SessionResolver struct {
	chat     ChatUsecase
	bindings ChatBindings
}

func NewSessionResolver(chat ChatUsecase, bindings ChatBindings) *SessionResolver {
	return &SessionResolver{
		chat:     chat,
		bindings: bindings,
	}
}

// Current returns the bound session
func (r *SessionResolver) Current(ctx context.Context, chatID int64) (*entity.Session, error) {
	if id, ok := r.bindings.Get(ctx, chatID); ok {
		session, err := r.chat.GetSession(ctx, id)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, entity.ErrSessionNotFound) {
			return nil, err
		}
		ctxzap.Info(ctx, "bound session expired, starting a new one",
			zap.Int64("chat_id", chatID),
			zap.String("session_id", id),
		)
	}

	return r.bind(ctx, chatID, "")
}

// Reset drops the bound session and starts an empty one with the same model
func (r *SessionResolver) Reset(ctx context.Context, chatID int64) (*entity.Session, error) {
	var model string
	if id, ok := r.bindings.Get(ctx, chatID); ok {
		if old, err := r.chat.GetSession(ctx, id); err == nil {
			model = old.Model
		}
		if err := r.chat.DeleteSession(ctx, id); err != nil && !errors.Is(err, entity.ErrSessionNotFound) {
			ctxzap.Warn(ctx, "failed to delete previous session", zap.Error(err), zap.String("session_id", id))
		}
	}

	return r.bind(ctx, chatID, model)
}

func (r *SessionResolver) bind(ctx context.Context, chatID int64, model string) (*entity.Session, error) {
	session, err := r.chat.CreateSession(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	r.bindings.Set(ctx, chatID, session.ID)

	ctxzap.Info(ctx, "chat bound to session",
		zap.Int64("chat_id", chatID),
		zap.String("session_id", session.ID),
	)
	return session, nil
}
