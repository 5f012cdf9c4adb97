package handlers

import (
	"context"

	"github.com/futig/docqa/internal/entity"
	chatuc "github.com/futig/docqa/internal/usecase/chat"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type ChatUsecase interface {
	CreateSession(ctx context.Context, model string) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	DeleteSession(ctx context.Context, id string) error
	AttachFiles(ctx context.Context, id string, files []entity.UploadedFile) (*entity.Session, []string, error)
	SendMessage(ctx context.Context, id, message string) (*entity.AnswerResult, error)
	SetModel(ctx context.Context, id, model string) (*entity.Session, error)
	Transcript(ctx context.Context, id string, format entity.ResultFormat) (*chatuc.TranscriptFile, error)
}

// ChatBindings maps a Telegram chat to its chat session
type ChatBindings interface {
	Get(ctx context.Context, chatID int64) (string, bool)
	Set(ctx context.Context, chatID int64, sessionID string)
	Delete(ctx context.Context, chatID int64)
}

type ModelCatalog interface {
	List() []entity.ModelInfo
}

type FileValidator interface {
	ValidateFiles(files []entity.UploadedFile) error
}

type FileDownloader interface {
	Download(ctx context.Context, doc *tgbotapi.Document) (entity.UploadedFile, error)
}

// API is the part of tgbotapi.BotAPI the handlers use
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}
