package handlers

import (
	"context"
	"fmt"

	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/telegram/keyboard"
	"github.com/futig/docqa/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CallbackHandler handles inline button presses
type CallbackHandler struct {
	BaseHandler
	chat ChatUsecase
}

func NewCallbackHandler(api API, chat ChatUsecase, sessions *SessionResolver, logger *zap.Logger) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindCallback,
			messageSender: NewMessageSender(api, logger),
			sessions:      sessions,
		},
		chat: chat,
	}
}

func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		h.messageSender.AnswerCallback(msg.CallbackID, "❌ Invalid action")
		return nil
	}

	ctxzap.Info(ctx, "callback query received",
		zap.String("callback_action", data.Action),
		zap.String("value", data.Value),
	)
	h.messageSender.AnswerCallback(msg.CallbackID, "")

	switch data.Action {
	case keyboard.ActionModel:
		return switchModel(ctx, &h.BaseHandler, h.chat, msg.ChatID, data.Value)
	case keyboard.ActionExport:
		return exportTranscript(ctx, &h.BaseHandler, h.chat, msg.ChatID, data.Value)
	case keyboard.ActionNew:
		return startNewChat(ctx, &h.BaseHandler, msg.ChatID)
	default:
		return fmt.Errorf("unknown callback action %q", data.Action)
	}
}

func switchModel(ctx context.Context, h *BaseHandler, chat ChatUsecase, chatID int64, model string) error {
	session, err := h.sessions.Current(ctx, chatID)
	if err != nil {
		return fmt.Errorf("resolve session: %w", err)
	}

	updated, err := chat.SetModel(ctx, session.ID, model)
	if err != nil {
		h.sendMessage(chatID, render.ClassifyError(err), nil)
		return nil
	}

	h.sendMessage(chatID, fmt.Sprintf(render.MsgModelChanged, updated.Model), nil)
	return nil
}

func exportTranscript(ctx context.Context, h *BaseHandler, chat ChatUsecase, chatID int64, format string) error {
	session, err := h.sessions.Current(ctx, chatID)
	if err != nil {
		return fmt.Errorf("resolve session: %w", err)
	}

	f := entity.ResultFormat(format)
	if !f.IsValid() {
		h.sendMessage(chatID, render.MsgExportChoose, keyboardBuilder.ExportKeyboard())
		return nil
	}

	file, err := chat.Transcript(ctx, session.ID, f)
	if err != nil {
		return fmt.Errorf("export transcript: %w", err)
	}

	return h.messageSender.SendDocument(chatID, file.Filename, file.Content)
}

func startNewChat(ctx context.Context, h *BaseHandler, chatID int64) error {
	session, err := h.sessions.Reset(ctx, chatID)
	if err != nil {
		return fmt.Errorf("reset session: %w", err)
	}

	h.sendMessage(chatID, fmt.Sprintf(render.MsgNewChat, session.Model), nil)
	return nil
}
