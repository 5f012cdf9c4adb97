package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pipeline"
	"github.com/futig/docqa/internal/pkg/formatter"
	"github.com/futig/docqa/internal/pkg/logger"
	"github.com/futig/docqa/internal/pkg/prompt"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Usecase implements chat sessions. Each session handles one interaction at a
// time; different sessions run concurrently.
type Usecase struct {
	sessions   SessionRepository
	loader     DocumentLoader
	pipeline   Pipeline
	catalog    ModelCatalog
	formatters FormatterFactory
	locks      *sessionLocks
	now        func() time.Time
}

func NewUsecase(
	sessions SessionRepository,
	loader DocumentLoader,
	pipeline Pipeline,
	catalog ModelCatalog,
	formatters FormatterFactory,
) *Usecase {
	return &Usecase{
		sessions:   sessions,
		loader:     loader,
		pipeline:   pipeline,
		catalog:    catalog,
		formatters: formatters,
		locks:      newSessionLocks(),
		now:        time.Now,
	}
}

// TranscriptFile is an exported chat ready to be downloaded
type TranscriptFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// CreateSession starts an empty session. An empty model selects the catalog default.
func (uc *Usecase) CreateSession(ctx context.Context, model string) (*entity.Session, error) {
	info, err := uc.catalog.Resolve(model)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	session := entity.Session{
		ID:        uuid.New().String(),
		Model:     info.ID,
		Turns:     []entity.ConversationTurn{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	ctxzap.Info(ctx, "chat session created",
		zap.String("session_id", session.ID),
		zap.String("model", session.Model),
	)

	return &session, nil
}

func (uc *Usecase) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (uc *Usecase) DeleteSession(ctx context.Context, id string) error {
	unlock := uc.locks.lock(id)
	defer unlock()

	if err := uc.sessions.Delete(ctx, id); err != nil {
		return err
	}

	ctxzap.Info(ctx, "chat session deleted", zap.String("session_id", id))
	return nil
}

// AttachFiles loads files into the session context. Failed files are returned
// by name; if none of them yields text the session is left unchanged.
func (uc *Usecase) AttachFiles(ctx context.Context, id string, files []entity.UploadedFile) (*entity.Session, []string, error) {
	ctx = logger.WithAction(ctx, "attach_files")

	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: upload at least one document", entity.ErrEmptyInput)
	}

	unlock := uc.locks.lock(id)
	defer unlock()

	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	docs, failures := uc.loader.LoadBatch(ctx, files)
	skipped := make([]string, 0, len(failures))
	for _, f := range failures {
		skipped = append(skipped, f.Filename)
	}

	if len(docs) == 0 {
		return nil, skipped, &entity.NoTextError{Failures: failures}
	}

	session.Documents = append(session.Documents, docs...)
	session.UpdatedAt = uc.now()

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("save session: %w", err)
	}

	ctxzap.Info(ctx, "documents attached",
		zap.String("session_id", id),
		zap.Int("added_documents", len(docs)),
		zap.Int("total_documents", len(session.Documents)),
		zap.Int("skipped_files", len(skipped)),
	)

	return &session, skipped, nil
}

// SendMessage runs one chat interaction and stores the resulting session
func (uc *Usecase) SendMessage(ctx context.Context, id, message string) (*entity.AnswerResult, error) {
	ctx = logger.AddFields(logger.WithAction(ctx, "send_message"), zap.String("session_id", id))

	unlock := uc.locks.lock(id)
	defer unlock()

	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, result, err := uc.Respond(ctx, session, message)
	if err != nil {
		return nil, err
	}

	if err := uc.sessions.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return result, nil
}

// Respond takes a session value and returns the next one. Turns are appended
// only after the model answered, so a failure leaves the session as it was.
func (uc *Usecase) Respond(ctx context.Context, session entity.Session, message string) (entity.Session, *entity.AnswerResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return session, nil, fmt.Errorf("%w: enter a message", entity.ErrEmptyInput)
	}

	result, err := uc.pipeline.Run(ctx, pipeline.Request{
		Mode:      prompt.ModeChat,
		Model:     session.Model,
		Documents: session.Documents,
		History:   session.Turns,
		Question:  message,
	})
	if err != nil {
		return session, nil, err
	}

	now := uc.now()
	next := session.Clone()
	next.Turns = append(next.Turns,
		entity.ConversationTurn{Role: entity.RoleUser, Content: message, CreatedAt: now},
		entity.ConversationTurn{Role: entity.RoleAssistant, Content: result.Answer, Reasoning: result.Reasoning, CreatedAt: now},
	)
	next.UpdatedAt = now

	ctxzap.Info(ctx, "chat message answered",
		zap.Int("turn_count", len(next.Turns)),
		zap.Bool("has_reasoning", result.Reasoning != nil),
	)

	return next, result, nil
}

// SetModel switches the model used for the next messages. History is kept.
func (uc *Usecase) SetModel(ctx context.Context, id, model string) (*entity.Session, error) {
	info, err := uc.catalog.Resolve(model)
	if err != nil {
		return nil, err
	}

	unlock := uc.locks.lock(id)
	defer unlock()

	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Model = info.ID
	session.UpdatedAt = uc.now()

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	ctxzap.Info(ctx, "chat model changed", zap.String("session_id", id), zap.String("model", info.ID))
	return &session, nil
}

// Transcript renders the conversation in the requested format
func (uc *Usecase) Transcript(ctx context.Context, id string, format entity.ResultFormat) (*TranscriptFile, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	content, err := f.Format(formatter.NewTranscript(session))
	if err != nil {
		return nil, fmt.Errorf("format transcript: %w", err)
	}

	return &TranscriptFile{
		Content:     content,
		ContentType: f.ContentType(),
		Filename:    "chat-" + session.ID + f.FileExtension(),
	}, nil
}
