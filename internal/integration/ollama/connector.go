package ollama

import (
	"context"
	"errors"
	"net/http"

	"github.com/futig/docqa/internal/config"
	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/integration/common"
	"github.com/futig/docqa/internal/pkg/retry"
	pkghttp "github.com/futig/docqa/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.OllamaConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(cfg config.OllamaConfig, logger *zap.Logger) *Connector {
	return &Connector{
		connector: common.NewModelConnector(cfg.HTTPClientConfig),
		config:    cfg,
		logger:    logger,
	}
}

// Generate sends one non-streamed completion request. It is never retried: a
// failure goes back to the user, who decides whether to resubmit.
func (c *Connector) Generate(ctx context.Context, model, prompt string) (string, error) {
	ctxzap.Info(ctx, "generating completion via ollama",
		zap.String("model", model),
		zap.Int("prompt_chars", len(prompt)),
	)

	req := entity.OllamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	}

	var resp entity.OllamaGenerateResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateEndpoint, req, &resp); err != nil {
		return "", &entity.ModelInvocationError{Model: model, Err: err}
	}
	if resp.Error != "" {
		return "", &entity.ModelInvocationError{Model: model, Err: errors.New(resp.Error)}
	}

	ctxzap.Info(ctx, "completion generated", zap.Int("response_chars", len(resp.Response)))

	return resp.Response, nil
}

// ListModels returns the names of the models installed on the server
func (c *Connector) ListModels(ctx context.Context) ([]string, error) {
	var resp entity.OllamaTagsResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, c.config.TagsEndpoint, nil, &resp); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// WaitReady polls the tags endpoint until the server answers. Only this
// startup probe is retried.
func (c *Connector) WaitReady(ctx context.Context, rc *retry.RetryConfig) ([]string, error) {
	var names []string

	err := retry.Do(ctx, rc, func() error {
		var err error
		names, err = c.ListModels(ctx)
		return err
	}, pkghttp.IsTransient, func(n uint, err error) {
		c.logger.Warn("ollama is not ready yet",
			zap.Uint("attempt", n+1),
			zap.String("url", c.connector.BaseURL()),
			zap.Error(err),
		)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("ollama is ready", zap.Strings("installed_models", names))
	return names, nil
}
