package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/futig/docqa/internal/api/upload"
	"github.com/futig/docqa/internal/config"
	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pkg/logger"
	"github.com/futig/docqa/internal/pkg/response"
	"github.com/futig/docqa/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   ChatUsecase
	cfg       config.FileUploadConfig
	validator *validator.Validator
}

func NewHandler(
	usecase ChatUsecase,
	cfg config.FileUploadConfig,
	validator *validator.Validator,
) *Handler {
	return &Handler{
		usecase:   usecase,
		cfg:       cfg,
		validator: validator,
	}
}

// CreateSession handles POST /chat-sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	var req entity.CreateSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}

	session, err := h.usecase.CreateSession(ctx, req.Model)
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusCreated, toSessionDTO(session))
}

// GetSession handles GET /chat-sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, id := h.sessionContext(r, "GetSession")

	ctxzap.Debug(ctx, "fetching session")

	session, err := h.usecase.GetSession(ctx, id)
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, toSessionDTO(session))
}

// DeleteSession handles DELETE /chat-sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, id := h.sessionContext(r, "DeleteSession")

	if err := h.usecase.DeleteSession(ctx, id); err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// SetModel handles PUT /chat-sessions/{id}/model
func (h *Handler) SetModel(w http.ResponseWriter, r *http.Request) {
	ctx, id := h.sessionContext(r, "SetModel")

	var req entity.SetModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	session, err := h.usecase.SetModel(ctx, id, req.Model)
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "session model changed", zap.String("model", session.Model))
	response.JSON(w, http.StatusOK, toSessionDTO(session))
}

// AttachFiles handles POST /chat-sessions/{id}/files
func (h *Handler) AttachFiles(w http.ResponseWriter, r *http.Request) {
	ctx, id := h.sessionContext(r, "AttachFiles")

	files, err := upload.ParseFiles(r, h.cfg.MaxUploadSize, h.validator)
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	session, skipped, err := h.usecase.AttachFiles(ctx, id, files)
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, &entity.AttachFilesResponse{
		SessionID:     session.ID,
		DocumentCount: len(session.Documents),
		Skipped:       skipped,
	})
}

// SendMessage handles POST /chat-sessions/{id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, id := h.sessionContext(r, "SendMessage")

	var req entity.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.AnswerError(ctx, w, fmt.Errorf("%w: invalid request body: %v", entity.ErrInvalidParameter, err))
		return
	}

	result, err := h.usecase.SendMessage(ctx, id, req.Message)
	if err != nil {
		response.AnswerError(ctx, w, err)
		return
	}

	response.Answer(w, result)
}

// GetTranscript handles GET /chat-sessions/{id}/transcript?format=markdown|docx|pdf
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	ctx, id := h.sessionContext(r, "GetTranscript")

	format, err := validator.ValidateFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	file, err := h.usecase.Transcript(ctx, id, format)
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "transcript exported",
		zap.String("format", string(format)),
		zap.Int("bytes", len(file.Content)),
	)

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}

func (h *Handler) sessionContext(r *http.Request, action string) (ctx context.Context, id string) {
	id = chi.URLParam(r, "id")
	ctx = logger.AddFields(r.Context(),
		zap.String("session_id", id),
		zap.String("action", action),
	)
	return ctx, id
}
