package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/futig/docqa/internal/config"
	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pkg/validator"
	chatuc "github.com/futig/docqa/internal/usecase/chat"
	"github.com/go-chi/chi/v5"
)

type fakeUsecase struct {
	session  *entity.Session
	result   *entity.AnswerResult
	skipped  []string
	err      error
	message  string
	model    string
	files    []entity.UploadedFile
	format   entity.ResultFormat
	deleteID string
}

func (f *fakeUsecase) lookup(id string) (*entity.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.session == nil || f.session.ID != id {
		return nil, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	return f.session, nil
}

func (f *fakeUsecase) CreateSession(_ context.Context, model string) (*entity.Session, error) {
	f.model = model
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeUsecase) GetSession(_ context.Context, id string) (*entity.Session, error) {
	return f.lookup(id)
}

func (f *fakeUsecase) DeleteSession(_ context.Context, id string) error {
	f.deleteID = id
	_, err := f.lookup(id)
	return err
}

func (f *fakeUsecase) AttachFiles(_ context.Context, id string, files []entity.UploadedFile) (*entity.Session, []string, error) {
	f.files = files
	s, err := f.lookup(id)
	return s, f.skipped, err
}

func (f *fakeUsecase) SendMessage(_ context.Context, id, message string) (*entity.AnswerResult, error) {
	f.message = message
	if _, err := f.lookup(id); err != nil {
		return nil, err
	}
	return f.result, nil
}

func (f *fakeUsecase) SetModel(_ context.Context, id, model string) (*entity.Session, error) {
	f.model = model
	return f.lookup(id)
}

func (f *fakeUsecase) Transcript(_ context.Context, id string, format entity.ResultFormat) (*chatuc.TranscriptFile, error) {
	f.format = format
	if _, err := f.lookup(id); err != nil {
		return nil, err
	}
	return &chatuc.TranscriptFile{
		Content:     []byte("# Chat transcript\n"),
		ContentType: "text/markdown; charset=utf-8",
		Filename:    "chat-" + id + ".md",
	}, nil
}

func testSession() *entity.Session {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &entity.Session{
		ID:    "s1",
		Model: "gemma3:1b",
		Turns: []entity.ConversationTurn{
			{Role: entity.RoleUser, Content: "hi", CreatedAt: now},
			{Role: entity.RoleAssistant, Content: "hello", CreatedAt: now},
		},
		Documents: []entity.Document{
			{Text: "a", SourceName: "r.pdf (page 1)"},
			{Text: "b", SourceName: "r.pdf (page 1)"},
			{Text: "c", SourceName: "notes.docx"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newTestServer(uc ChatUsecase) http.Handler {
	cfg := config.FileUploadConfig{
		MaxFileSize:   1 << 20,
		MaxTotalSize:  1 << 21,
		MaxFileCount:  4,
		MaxUploadSize: 1 << 21,
	}
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, cfg, validator.NewFileValidator(cfg)))
	return r
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateSession(t *testing.T) {
	uc := &fakeUsecase{session: testSession()}

	rec := serve(newTestServer(uc), httptest.NewRequest(http.MethodPost, "/chat-sessions/", strings.NewReader(`{"model":"qwen3:4b"}`)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if uc.model != "qwen3:4b" {
		t.Errorf("model not passed through, got %q", uc.model)
	}

	var dto entity.SessionDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dto.ID != "s1" || dto.DocumentCount != 3 || len(dto.Turns) != 2 {
		t.Errorf("unexpected session: %+v", dto)
	}
	if len(dto.Sources) != 2 || dto.Sources[0] != "r.pdf (page 1)" || dto.Sources[1] != "notes.docx" {
		t.Errorf("sources must be deduplicated in order, got %v", dto.Sources)
	}
}

func TestCreateSession_EmptyBody(t *testing.T) {
	uc := &fakeUsecase{session: testSession()}

	rec := serve(newTestServer(uc), httptest.NewRequest(http.MethodPost, "/chat-sessions/", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if uc.model != "" {
		t.Errorf("expected default model, got %q", uc.model)
	}
}

func TestCreateSession_UnknownModel(t *testing.T) {
	uc := &fakeUsecase{err: fmt.Errorf("%w: llama", entity.ErrUnknownModel)}

	rec := serve(newTestServer(uc), httptest.NewRequest(http.MethodPost, "/chat-sessions/", strings.NewReader(`{"model":"llama"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	rec := serve(newTestServer(&fakeUsecase{}), httptest.NewRequest(http.MethodGet, "/chat-sessions/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	var body entity.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != "Not Found" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestDeleteSession(t *testing.T) {
	uc := &fakeUsecase{session: testSession()}

	rec := serve(newTestServer(uc), httptest.NewRequest(http.MethodDelete, "/chat-sessions/s1", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if uc.deleteID != "s1" {
		t.Errorf("expected delete of s1, got %q", uc.deleteID)
	}
}

func TestSetModel(t *testing.T) {
	uc := &fakeUsecase{session: testSession()}

	rec := serve(newTestServer(uc), httptest.NewRequest(http.MethodPut, "/chat-sessions/s1/model", strings.NewReader(`{"model":"qwen3:4b"}`)))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if uc.model != "qwen3:4b" {
		t.Errorf("expected model qwen3:4b, got %q", uc.model)
	}
}

func TestSendMessage(t *testing.T) {
	uc := &fakeUsecase{
		session: testSession(),
		result:  &entity.AnswerResult{Answer: "Paris", Model: "gemma3:1b"},
	}

	rec := serve(newTestServer(uc), httptest.NewRequest(http.MethodPost, "/chat-sessions/s1/messages", strings.NewReader(`{"message":"capital of France?"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if uc.message != "capital of France?" {
		t.Errorf("unexpected message: %q", uc.message)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["answer"] != "Paris" {
		t.Errorf("unexpected answer: %v", body["answer"])
	}
	if _, ok := body["reasoning"]; ok {
		t.Error("reasoning must be absent when the model produced none")
	}
	if _, ok := body["error"]; ok {
		t.Error("error must be absent on success")
	}
}

func TestSendMessage_ModelFailure(t *testing.T) {
	uc := &fakeUsecase{
		session: testSession(),
		err:     &entity.ModelInvocationError{Model: "gemma3:1b", Err: errors.New("connection refused")},
	}

	rec := serve(newTestServer(uc), httptest.NewRequest(http.MethodPost, "/chat-sessions/s1/messages", strings.NewReader(`{"message":"hi"}`)))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
	var resp entity.AnswerResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error == nil || *resp.Error != "model gemma3:1b: connection refused" {
		t.Errorf("unexpected error field: %v", resp.Error)
	}
}

func TestSendMessage_InvalidBody(t *testing.T) {
	uc := &fakeUsecase{session: testSession()}

	rec := serve(newTestServer(uc), httptest.NewRequest(http.MethodPost, "/chat-sessions/s1/messages", strings.NewReader(`not json`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAttachFiles(t *testing.T) {
	uc := &fakeUsecase{session: testSession(), skipped: []string{"notes.txt"}}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, name := range []string{"r.pdf", "notes.txt"} {
		part, _ := mw.CreateFormFile("files", name)
		part.Write([]byte("data"))
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/chat-sessions/s1/files", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := serve(newTestServer(uc), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(uc.files) != 2 {
		t.Errorf("expected 2 files, got %d", len(uc.files))
	}

	var resp entity.AttachFilesResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.SessionID != "s1" || resp.DocumentCount != 3 || len(resp.Skipped) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestGetTranscript(t *testing.T) {
	uc := &fakeUsecase{session: testSession()}

	rec := serve(newTestServer(uc), httptest.NewRequest(http.MethodGet, "/chat-sessions/s1/transcript", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if uc.format != entity.FormatMarkdown {
		t.Errorf("expected markdown by default, got %q", uc.format)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="chat-s1.md"` {
		t.Errorf("unexpected Content-Disposition: %q", got)
	}
	if rec.Body.String() != "# Chat transcript\n" {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestGetTranscript_InvalidFormat(t *testing.T) {
	rec := serve(newTestServer(&fakeUsecase{session: testSession()}), httptest.NewRequest(http.MethodGet, "/chat-sessions/s1/transcript?format=odt", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
