package ollama

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers without a model server, for local runs with ENABLE_MOCKS
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Generate(ctx context.Context, model, prompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating completion", zap.String("model", model))

	return fmt.Sprintf(
		"<think>The prompt has %d characters. Answering from the mock backend.</think>\n"+
			"This is a mock answer from %s.", len([]rune(prompt)), model,
	), nil
}
