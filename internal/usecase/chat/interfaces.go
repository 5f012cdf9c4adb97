package chat

import (
	"context"

	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pipeline"
	"github.com/futig/docqa/internal/pkg/formatter"
)

type SessionRepository interface {
	Get(ctx context.Context, id string) (entity.Session, error)
	Save(ctx context.Context, session entity.Session) error
	Delete(ctx context.Context, id string) error
}

type DocumentLoader interface {
	LoadBatch(ctx context.Context, files []entity.UploadedFile) ([]entity.Document, []*entity.LoadError)
}

type Pipeline interface {
	Run(ctx context.Context, req pipeline.Request) (*entity.AnswerResult, error)
}

type ModelCatalog interface {
	Resolve(id string) (entity.ModelInfo, error)
}

type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}
