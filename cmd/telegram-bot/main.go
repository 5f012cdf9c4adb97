package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/docqa/internal/builder"
	"go.uber.org/zap"
)

func main() {
	bot, logger, err := builder.BuildTelegramBot()
	if err != nil {
		log.Fatal("Failed to build telegram bot:", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting telegram bot")
		errChan <- bot.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal, draining in-flight updates")
		if err := bot.Stop(); err != nil {
			logger.Error("error stopping bot", zap.Error(err))
		}
		logger.Info("telegram bot stopped gracefully")
	case err := <-errChan:
		if err == nil || errors.Is(err, context.Canceled) {
			return
		}
		logger.Error("telegram bot error", zap.Error(err))
		stop()
		os.Exit(1)
	}
}
