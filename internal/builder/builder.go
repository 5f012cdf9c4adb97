package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/docqa/internal/api"
	chatapi "github.com/futig/docqa/internal/api/chat"
	modelsapi "github.com/futig/docqa/internal/api/models"
	qaapi "github.com/futig/docqa/internal/api/qa"
	"github.com/futig/docqa/internal/config"
	"github.com/futig/docqa/internal/repository"
	"github.com/futig/docqa/internal/telegram"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	c, err := buildComponents(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Setup API handlers
	qaHandler := qaapi.NewHandler(c.qaUC, cfg.FileUploadCfg, c.validator)
	chatHandler := chatapi.NewHandler(c.chatUC, cfg.FileUploadCfg, c.validator)
	modelsHandler := modelsapi.NewHandler(cfg.Models())
	logger.Info("API handlers initialized")

	router := api.SetupRouter(qaHandler, chatHandler, modelsHandler, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:   server,
		sessions: c.sessions,
		logger:   logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, *zap.Logger, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	if cfg.TelegramCfg.BotToken == "" {
		return nil, nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	c, err := buildComponents(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	bindings := repository.NewChatBindingMemory(cfg.SessionCfg.TTL, cfg.SessionCfg.CleanupInterval)

	bot, err := telegram.NewBot(
		&cfg.TelegramCfg,
		cfg.FileUploadCfg,
		c.chatUC,
		bindings,
		cfg.Models(),
		c.validator,
		logger,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}
