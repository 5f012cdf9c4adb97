package pipeline

import (
	"context"
	"errors"

	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pkg/chunker"
	"github.com/futig/docqa/internal/pkg/prompt"
	"github.com/futig/docqa/internal/pkg/ranker"
	"github.com/futig/docqa/internal/pkg/reasoning"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ModelClient is any backend that completes a prompt with a named model
type ModelClient interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

type ModelCatalog interface {
	Lookup(id string) (entity.ModelInfo, bool)
}

// Request carries one interaction through chunk, rank, assemble, generate and split
type Request struct {
	Mode      prompt.Mode
	Model     string
	Documents []entity.Document
	History   []entity.ConversationTurn
	Question  string
}

type Pipeline struct {
	chunker   *chunker.Chunker
	topK      int
	assembler *prompt.Assembler
	client    ModelClient
	catalog   ModelCatalog
}

func New(
	chunker *chunker.Chunker,
	topK int,
	assembler *prompt.Assembler,
	client ModelClient,
	catalog ModelCatalog,
) *Pipeline {
	return &Pipeline{
		chunker:   chunker,
		topK:      topK,
		assembler: assembler,
		client:    client,
		catalog:   catalog,
	}
}

// Run answers one question. No fragments is fine: the model is then queried
// without document context.
func (p *Pipeline) Run(ctx context.Context, req Request) (*entity.AnswerResult, error) {
	fragments := p.chunker.Split(req.Documents)
	ranked := ranker.Rank(fragments, req.Question, p.topK)

	promptText := p.assembler.Build(prompt.Input{
		Mode:      req.Mode,
		Fragments: ranked,
		History:   req.History,
		Question:  req.Question,
	})
	tokens := prompt.EstimateTokens(promptText)

	ctxzap.Info(ctx, "prompt assembled",
		zap.String("mode", string(req.Mode)),
		zap.Int("document_count", len(req.Documents)),
		zap.Int("fragment_count", len(fragments)),
		zap.Int("selected_count", len(ranked)),
		zap.Int("history_turns", len(p.assembler.Window(req.History))),
		zap.Int("estimated_tokens", tokens),
	)

	if info, ok := p.catalog.Lookup(req.Model); ok && tokens > info.ContextWindow {
		ctxzap.Warn(ctx, "prompt may exceed the model context window",
			zap.String("model", req.Model),
			zap.Int("estimated_tokens", tokens),
			zap.Int("context_window", info.ContextWindow),
		)
	}

	raw, err := p.client.Generate(ctx, req.Model, promptText)
	if err != nil {
		var invErr *entity.ModelInvocationError
		if !errors.As(err, &invErr) {
			err = &entity.ModelInvocationError{Model: req.Model, Err: err}
		}
		return nil, err
	}

	resp := reasoning.Split(raw)

	sources := make([]entity.Fragment, 0, len(ranked))
	for _, f := range ranked {
		sources = append(sources, f.Fragment)
	}

	return &entity.AnswerResult{
		Answer:    resp.Answer,
		Reasoning: resp.Reasoning,
		Model:     req.Model,
		Sources:   sources,
	}, nil
}
