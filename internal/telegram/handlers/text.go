package handlers

import (
	"context"
	"fmt"

	"github.com/futig/docqa/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// TextHandler sends plain messages to the chat session
type TextHandler struct {
	BaseHandler
	chat   ChatUsecase
	api    API
	logger *zap.Logger
}

func NewTextHandler(api API, chat ChatUsecase, sessions *SessionResolver, logger *zap.Logger) *TextHandler {
	return &TextHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindText,
			messageSender: NewMessageSender(api, logger),
			sessions:      sessions,
		},
		chat:   chat,
		api:    api,
		logger: logger,
	}
}

func (h *TextHandler) Handle(ctx context.Context, msg *Message) error {
	session, err := h.sessions.Current(ctx, msg.ChatID)
	if err != nil {
		return fmt.Errorf("resolve session: %w", err)
	}

	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.String("session_id", session.ID)))

	typing := StartTyping(ctx, h.api, msg.ChatID, h.logger)
	result, err := h.chat.SendMessage(ctx, session.ID, msg.Text)
	typing.Stop()

	if err != nil {
		ctxzap.Warn(ctx, "chat message failed", zap.Error(err))
		h.sendMessage(msg.ChatID, render.ClassifyError(err), nil)
		return nil
	}

	return h.messageSender.SendAll(msg.ChatID, render.RenderAnswer(result))
}
