package handlers

import (
	"context"
	"fmt"

	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DocumentHandler adds uploaded files to the chat context. A caption, if
// any, is then sent as a question about them.
type DocumentHandler struct {
	BaseHandler
	chat       ChatUsecase
	downloader FileDownloader
	validator  FileValidator
	text       *TextHandler
}

func NewDocumentHandler(
	api API,
	chat ChatUsecase,
	sessions *SessionResolver,
	downloader FileDownloader,
	validator FileValidator,
	text *TextHandler,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindDocument,
			messageSender: NewMessageSender(api, logger),
			sessions:      sessions,
		},
		chat:       chat,
		downloader: downloader,
		validator:  validator,
		text:       text,
	}
}

func (h *DocumentHandler) Handle(ctx context.Context, msg *Message) error {
	if msg.Document == nil {
		return fmt.Errorf("%w: message has no document", entity.ErrInvalidFile)
	}

	file, err := h.downloader.Download(ctx, msg.Document)
	if err != nil {
		return fmt.Errorf("download %s: %w", msg.Document.FileName, err)
	}

	if err := h.validator.ValidateFiles([]entity.UploadedFile{file}); err != nil {
		h.sendMessage(msg.ChatID, render.ClassifyError(err), nil)
		return nil
	}

	session, err := h.sessions.Current(ctx, msg.ChatID)
	if err != nil {
		return fmt.Errorf("resolve session: %w", err)
	}

	updated, skipped, err := h.chat.AttachFiles(ctx, session.ID, []entity.UploadedFile{file})
	if err != nil {
		ctxzap.Warn(ctx, "attach failed",
			zap.String("session_id", session.ID),
			zap.String("filename", file.Filename),
			zap.Error(err),
		)
		h.sendMessage(msg.ChatID, render.ClassifyError(err), nil)
		return nil
	}

	h.sendMessage(msg.ChatID, render.RenderAttached([]string{file.Filename}, len(updated.Documents), skipped), nil)

	if msg.Text != "" && h.text != nil {
		return h.text.Handle(ctx, msg)
	}
	return nil
}
