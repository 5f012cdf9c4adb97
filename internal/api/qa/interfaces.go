package qa

import (
	"context"

	"github.com/futig/docqa/internal/entity"
)

type QAUsecase interface {
	Ask(ctx context.Context, req entity.AskRequest) (*entity.AnswerResult, error)
}
