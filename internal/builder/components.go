package builder

import (
	"context"
	"fmt"
	"slices"

	"github.com/futig/docqa/internal/config"
	"github.com/futig/docqa/internal/integration/ollama"
	"github.com/futig/docqa/internal/integration/openai"
	"github.com/futig/docqa/internal/loader"
	"github.com/futig/docqa/internal/pipeline"
	"github.com/futig/docqa/internal/pkg/chunker"
	"github.com/futig/docqa/internal/pkg/formatter"
	"github.com/futig/docqa/internal/pkg/logger"
	"github.com/futig/docqa/internal/pkg/office"
	"github.com/futig/docqa/internal/pkg/prompt"
	"github.com/futig/docqa/internal/pkg/validator"
	"github.com/futig/docqa/internal/repository"
	"github.com/futig/docqa/internal/usecase/chat"
	"github.com/futig/docqa/internal/usecase/qa"
	"go.uber.org/zap"
)

// components are shared by every front end: HTTP API, Telegram bot and terminal chat
type components struct {
	cfg       *config.Config
	logger    *zap.Logger
	validator *validator.Validator
	sessions  *repository.SessionMemory
	qaUC      *qa.Usecase
	chatUC    *chat.Usecase
}

func setupLogger(level string) (*zap.Logger, error) {
	return logger.New(level)
}

func buildComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*components, error) {
	catalog := cfg.Models()

	if err := setupOffice(cfg.UnidocCfg, logger); err != nil {
		return nil, err
	}

	client, err := setupModelClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	ch, err := chunker.New(cfg.PipelineCfg.ChunkSize, cfg.PipelineCfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("create chunker: %w", err)
	}

	pl := pipeline.New(
		ch,
		cfg.PipelineCfg.TopK,
		prompt.NewAssembler(cfg.PipelineCfg.HistoryWindow),
		client,
		catalog,
	)
	logger.Info("Pipeline initialized",
		zap.Int("chunk_size", ch.Size()),
		zap.Int("chunk_overlap", ch.Overlap()),
		zap.Int("top_k", cfg.PipelineCfg.TopK),
		zap.Int("history_window", cfg.PipelineCfg.HistoryWindow),
	)

	docLoader := loader.NewFactory(cfg.FileUploadCfg.TempDir)
	sessions := repository.NewSessionMemory(cfg.SessionCfg.TTL, cfg.SessionCfg.CleanupInterval)

	qaUC := qa.NewUsecase(docLoader, pl, catalog)
	chatUC := chat.NewUsecase(sessions, docLoader, pl, catalog, formatter.NewFactory())
	logger.Info("Use cases initialized")

	return &components{
		cfg:       cfg,
		logger:    logger,
		validator: validator.NewFileValidator(cfg.FileUploadCfg),
		sessions:  sessions,
		qaUC:      qaUC,
		chatUC:    chatUC,
	}, nil
}

// setupModelClient picks the model backend. Both real backends are checked at
// startup so a missing server shows up in the logs before the first question.
func setupModelClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (pipeline.ModelClient, error) {
	if cfg.EnableMocks {
		logger.Info("Using mock model client")
		return ollama.NewMockConnector(logger), nil
	}

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		logger.Info("Using OpenAI-compatible model client", zap.String("url", cfg.OpenAICfg.Url))
		conn := openai.NewConnector(cfg.OpenAICfg, logger)
		if cfg.StartupCfg.WaitForModel {
			available, err := conn.WaitReady(ctx, &cfg.StartupCfg.Retry)
			if err != nil {
				return nil, fmt.Errorf("wait for openai-compatible server: %w", err)
			}
			warnMissingModels(cfg.Models(), available, logger)
		}
		return conn, nil
	case config.ProviderOllama:
		logger.Info("Using ollama model client", zap.String("url", cfg.OllamaCfg.Url))
		conn := ollama.NewConnector(cfg.OllamaCfg, logger)
		if cfg.StartupCfg.WaitForModel {
			installed, err := conn.WaitReady(ctx, &cfg.StartupCfg.Retry)
			if err != nil {
				return nil, fmt.Errorf("wait for ollama: %w", err)
			}
			warnMissingModels(cfg.Models(), installed, logger)
		}
		return conn, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

// setupOffice activates unioffice before any loader or formatter runs
func setupOffice(cfg config.UnidocConfig, logger *zap.Logger) error {
	licensed, err := office.Activate(office.LicenseConfig{
		MeteredKey:   cfg.LicenseAPIKey,
		OfflineKey:   cfg.LicenseKey,
		CustomerName: cfg.CustomerName,
	})
	if err != nil {
		return err
	}
	if !licensed {
		logger.Info("No unioffice license configured, using the built-in DOCX codec")
	}
	return nil
}

func warnMissingModels(catalog config.ModelCatalog, installed []string, logger *zap.Logger) {
	for _, m := range catalog.List() {
		if !slices.Contains(installed, m.ID) {
			logger.Warn("catalog model is not installed on the model server",
				zap.String("model", m.ID),
			)
		}
	}
}
