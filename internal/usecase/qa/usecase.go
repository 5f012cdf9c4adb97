package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pipeline"
	"github.com/futig/docqa/internal/pkg/logger"
	"github.com/futig/docqa/internal/pkg/prompt"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Usecase answers one question over a batch of uploaded documents. Nothing is
// kept between calls.
type Usecase struct {
	loader   DocumentLoader
	pipeline Pipeline
	catalog  ModelCatalog
}

func NewUsecase(loader DocumentLoader, pipeline Pipeline, catalog ModelCatalog) *Usecase {
	return &Usecase{
		loader:   loader,
		pipeline: pipeline,
		catalog:  catalog,
	}
}

// Ask loads the files, retrieves the relevant fragments and queries the model.
// Files that fail to load are skipped and listed in the result.
func (uc *Usecase) Ask(ctx context.Context, req entity.AskRequest) (*entity.AnswerResult, error) {
	ctx = logger.WithAction(ctx, "ask")

	question := strings.TrimSpace(req.Question)
	if len(req.Files) == 0 {
		return nil, fmt.Errorf("%w: upload at least one document", entity.ErrEmptyInput)
	}
	if question == "" {
		return nil, fmt.Errorf("%w: enter a question", entity.ErrEmptyInput)
	}

	model, err := uc.catalog.Resolve(req.Model)
	if err != nil {
		return nil, err
	}
	ctx = logger.AddFields(ctx, zap.String("model", model.ID))

	docs, failures := uc.loader.LoadBatch(ctx, req.Files)
	if len(docs) == 0 {
		ctxzap.Warn(ctx, "no text extracted", zap.Int("failed_files", len(failures)))
		return nil, &entity.NoTextError{Failures: failures}
	}

	result, err := uc.pipeline.Run(ctx, pipeline.Request{
		Mode:      prompt.ModeDocumentQA,
		Model:     model.ID,
		Documents: docs,
		Question:  question,
	})
	if err != nil {
		return nil, err
	}

	result.Skipped = skippedNames(failures)

	ctxzap.Info(ctx, "question answered",
		zap.Int("document_count", len(docs)),
		zap.Int("skipped_files", len(result.Skipped)),
		zap.Bool("has_reasoning", result.Reasoning != nil),
	)

	return result, nil
}

func skippedNames(failures []*entity.LoadError) []string {
	if len(failures) == 0 {
		return nil
	}
	names := make([]string, 0, len(failures))
	for _, f := range failures {
		names = append(names, f.Filename)
	}
	return names
}
