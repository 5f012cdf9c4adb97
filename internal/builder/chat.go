package builder

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/futig/docqa/internal/config"
	"github.com/futig/docqa/internal/pkg/logger"
	"github.com/futig/docqa/internal/tui"
	"go.uber.org/zap"
)

// ChatOptions are the terminal chat flags
type ChatOptions struct {
	Environment string
	Model       string
	LogFile     string
	Files       []string
}

// BuildChat creates the terminal chat. Logs go to a file because the
// terminal belongs to the UI.
func BuildChat(ctx context.Context, opts ChatOptions) (*tea.Program, func(), error) {
	cfg, err := config.Load(opts.Environment)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupFileLogger(cfg.LogLevel, opts.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}
	cleanup := func() { _ = logger.Sync() }

	c, err := buildComponents(ctx, cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	session, err := c.chatUC.CreateSession(ctx, opts.Model)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	if len(opts.Files) > 0 {
		files, err := tui.ReadFiles(opts.Files, os.ReadFile)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if err := c.validator.ValidateFiles(files); err != nil {
			cleanup()
			return nil, nil, err
		}
		if session, _, err = c.chatUC.AttachFiles(ctx, session.ID, files); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("attach files: %w", err)
		}
	}

	logger.Info("Terminal chat built",
		zap.String("session_id", session.ID),
		zap.String("model", session.Model),
		zap.Int("document_count", len(session.Documents)),
	)

	program := tea.NewProgram(tui.New(ctx, c.chatUC, session), tea.WithAltScreen(), tea.WithContext(ctx))
	return program, cleanup, nil
}

func setupFileLogger(level, path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	return logger.NewFile(level, path)
}
