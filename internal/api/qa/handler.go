package qa

import (
	"net/http"

	"github.com/futig/docqa/internal/api/upload"
	"github.com/futig/docqa/internal/config"
	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pkg/logger"
	"github.com/futig/docqa/internal/pkg/response"
	"github.com/futig/docqa/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   QAUsecase
	cfg       config.FileUploadConfig
	validator *validator.Validator
}

func NewHandler(
	usecase QAUsecase,
	cfg config.FileUploadConfig,
	validator *validator.Validator,
) *Handler {
	return &Handler{
		usecase:   usecase,
		cfg:       cfg,
		validator: validator,
	}
}

// Ask handles POST /ask - answer one question over the uploaded files
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	files, err := upload.ParseFiles(r, h.cfg.MaxUploadSize, h.validator)
	if err != nil {
		response.AnswerError(ctx, w, err)
		return
	}

	req := entity.AskRequest{
		Files:    files,
		Question: r.FormValue("question"),
		Model:    r.FormValue("model"),
	}

	ctxzap.Info(ctx, "answering question",
		zap.Int("file_count", len(req.Files)),
		zap.String("model", req.Model),
	)

	result, err := h.usecase.Ask(ctx, req)
	if err != nil {
		response.AnswerError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "question answered",
		zap.Int("source_count", len(result.Sources)),
		zap.Strings("skipped_files", result.Skipped),
	)
	response.Answer(w, result)
}
