package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docqa/internal/telegram/keyboard"
	"github.com/futig/docqa/internal/telegram/render"
	"go.uber.org/zap"
)

var keyboardBuilder = keyboard.NewBuilder()

// CommandHandler handles slash commands
type CommandHandler struct {
	BaseHandler
	chat    ChatUsecase
	catalog ModelCatalog
}

func NewCommandHandler(api API, chat ChatUsecase, sessions *SessionResolver, catalog ModelCatalog, logger *zap.Logger) *CommandHandler {
	return &CommandHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindCommand,
			messageSender: NewMessageSender(api, logger),
			sessions:      sessions,
		},
		chat:    chat,
		catalog: catalog,
	}
}

func (h *CommandHandler) Handle(ctx context.Context, msg *Message) error {
	args := strings.TrimSpace(msg.CommandArgs)

	switch msg.Command {
	case "start":
		if _, err := h.sessions.Current(ctx, msg.ChatID); err != nil {
			return fmt.Errorf("resolve session: %w", err)
		}
		h.sendMessage(msg.ChatID, render.MsgWelcome, keyboardBuilder.NewChatKeyboard())
	case "help":
		h.sendMessage(msg.ChatID, render.MsgHelp, nil)
	case "new":
		return startNewChat(ctx, &h.BaseHandler, msg.ChatID)
	case "model":
		if args != "" {
			return switchModel(ctx, &h.BaseHandler, h.chat, msg.ChatID, args)
		}
		session, err := h.sessions.Current(ctx, msg.ChatID)
		if err != nil {
			return fmt.Errorf("resolve session: %w", err)
		}
		h.sendMessage(msg.ChatID,
			fmt.Sprintf(render.MsgModelSelect, session.Model),
			keyboardBuilder.ModelKeyboard(h.catalog.List(), session.Model),
		)
	case "export":
		if args != "" {
			return exportTranscript(ctx, &h.BaseHandler, h.chat, msg.ChatID, strings.ToLower(args))
		}
		h.sendMessage(msg.ChatID, render.MsgExportChoose, keyboardBuilder.ExportKeyboard())
	default:
		h.sendMessage(msg.ChatID, "❌ Unknown command. Use /help", nil)
	}

	return nil
}
