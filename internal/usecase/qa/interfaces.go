package qa

import (
	"context"

	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pipeline"
)

type DocumentLoader interface {
	LoadBatch(ctx context.Context, files []entity.UploadedFile) ([]entity.Document, []*entity.LoadError)
}

type Pipeline interface {
	Run(ctx context.Context, req pipeline.Request) (*entity.AnswerResult, error)
}

type ModelCatalog interface {
	Resolve(id string) (entity.ModelInfo, error)
}
