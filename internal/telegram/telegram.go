package telegram

import (
	"context"
	"fmt"

	"github.com/futig/docqa/internal/config"
	"github.com/futig/docqa/internal/telegram/bot"
	"github.com/futig/docqa/internal/telegram/handlers"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	uploadCfg config.FileUploadConfig,
	chatUC handlers.ChatUsecase,
	bindings handlers.ChatBindings,
	catalog handlers.ModelCatalog,
	validator handlers.FileValidator,
	logger *zap.Logger,
) (Bot, error) {
	b, err := bot.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	registerHandlers(b, uploadCfg, chatUC, bindings, catalog, validator, logger)

	logger.Info("telegram bot initialized successfully")

	return b, nil
}

// registerHandlers registers all handlers with the bot
func registerHandlers(
	b *bot.Bot,
	uploadCfg config.FileUploadConfig,
	chatUC handlers.ChatUsecase,
	bindings handlers.ChatBindings,
	catalog handlers.ModelCatalog,
	validator handlers.FileValidator,
	logger *zap.Logger,
) {
	api := b.GetAPI()
	sessions := handlers.NewSessionResolver(chatUC, bindings)
	downloader := handlers.NewTelegramFileDownloader(api, b.GetConfig().BotToken, uploadCfg.MaxFileSize)

	textHandler := handlers.NewTextHandler(api, chatUC, sessions, logger)

	b.RegisterHandler(handlers.NewCommandHandler(api, chatUC, sessions, catalog, logger))
	b.RegisterHandler(textHandler)
	b.RegisterHandler(handlers.NewDocumentHandler(api, chatUC, sessions, downloader, validator, textHandler, logger))
	b.RegisterHandler(handlers.NewCallbackHandler(api, chatUC, sessions, logger))

	logger.Info("telegram handlers registered",
		zap.Int("handler_count", 4),
	)
}
