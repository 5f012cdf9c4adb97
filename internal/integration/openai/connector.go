package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/futig/docqa/internal/config"
	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/integration/common"
	"github.com/futig/docqa/internal/pkg/retry"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Connector talks to any OpenAI-compatible server (LM Studio, llama.cpp, Ollama /v1)
type Connector struct {
	client  *openai.Client
	baseURL string
	logger  *zap.Logger
}

func NewConnector(cfg config.OpenAIConfig, logger *zap.Logger) *Connector {
	token := cfg.Token
	if token == "" {
		token = "not-needed"
	}

	// go-openai sets its own Authorization header, the pooled client adds
	// timeouts and size-only request logging
	conn := common.NewModelConnector(cfg.HTTPClientConfig)

	oaiCfg := openai.DefaultConfig(token)
	oaiCfg.BaseURL = conn.BaseURL()
	oaiCfg.HTTPClient = conn.HTTPClient()

	return &Connector{
		client:  openai.NewClientWithConfig(oaiCfg),
		baseURL: conn.BaseURL(),
		logger:  logger,
	}
}

// Generate sends the prompt as a single user message. No retry.
func (c *Connector) Generate(ctx context.Context, model, prompt string) (string, error) {
	ctxzap.Info(ctx, "generating completion via openai-compatible server",
		zap.String("model", model),
		zap.Int("prompt_chars", len(prompt)),
	)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &entity.ModelInvocationError{Model: model, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &entity.ModelInvocationError{Model: model, Err: errors.New("empty completion")}
	}

	content := resp.Choices[0].Message.Content
	ctxzap.Info(ctx, "completion generated", zap.Int("response_chars", len(content)))

	return content, nil
}

// ListModels returns the model ids the server reports on /models
func (c *Connector) ListModels(ctx context.Context) ([]string, error) {
	resp, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.ID)
	}
	return names, nil
}

// WaitReady polls /models until the server answers. Only this startup probe
// is retried; an API error other than 5xx/429 stops it at once.
func (c *Connector) WaitReady(ctx context.Context, rc *retry.RetryConfig) ([]string, error) {
	var names []string

	err := retry.Do(ctx, rc, func() error {
		var err error
		names, err = c.ListModels(ctx)
		return err
	}, isTransient, func(n uint, err error) {
		c.logger.Warn("openai-compatible server is not ready yet",
			zap.Uint("attempt", n+1),
			zap.String("url", c.baseURL),
			zap.Error(err),
		)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("openai-compatible server is ready", zap.Strings("available_models", names))
	return names, nil
}

func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= http.StatusInternalServerError || apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode >= http.StatusInternalServerError || reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	// transport failures: connection refused while the server boots
	return true
}
