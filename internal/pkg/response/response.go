package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/docqa/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// the status line is already out, nothing left to report to the client
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error writes an ErrorResponse. The error text is sent verbatim as the message.
func Error(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		message = message + ": " + err.Error()
	}

	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}

	JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// HandleError maps a usecase error to its status code
func HandleError(ctx context.Context, w http.ResponseWriter, err error) {
	status, message := Classify(err)
	Error(ctx, w, status, message, err)
}

// AnswerError reports a failed interaction in the answer shape: error set, answer and reasoning absent
func AnswerError(ctx context.Context, w http.ResponseWriter, err error) {
	status, message := Classify(err)
	ctxzap.Warn(ctx, message, zap.Error(err), zap.Int("status", status))

	text := err.Error()
	JSON(w, status, entity.AnswerResponse{Error: &text})
}

// Classify returns the HTTP status and a short description for err
func Classify(err error) (int, string) {
	var (
		loadErr  *entity.LoadError
		modelErr *entity.ModelInvocationError
		noText   *entity.NoTextError
	)

	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.As(err, &noText), errors.As(err, &loadErr):
		return http.StatusUnprocessableEntity, "could not read uploaded files"
	case errors.Is(err, entity.ErrEmptyInput):
		return http.StatusBadRequest, "empty input"
	case errors.Is(err, entity.ErrUnknownModel),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrMissingField):
		return http.StatusBadRequest, "invalid parameter"
	case errors.Is(err, entity.ErrInvalidFile),
		errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrTooManyFiles),
		errors.Is(err, entity.ErrTotalSizeTooLarge),
		errors.Is(err, entity.ErrInvalidExtension),
		errors.Is(err, entity.ErrUnsupportedFT):
		return http.StatusBadRequest, "invalid file"
	case errors.As(err, &modelErr):
		return http.StatusBadGateway, "model invocation failed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
