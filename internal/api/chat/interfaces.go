package chat

import (
	"context"

	"github.com/futig/docqa/internal/entity"
	chatuc "github.com/futig/docqa/internal/usecase/chat"
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
