package handlers

import (
	"context"
	"fmt"

	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pkg/validator"
	pkghttp "github.com/futig/docqa/pkg/http"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const telegramFileURL = "https://api.telegram.org/file/bot"

// FileGetter resolves a file id to its download path
type FileGetter interface {
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}

// TelegramFileDownloader fetches documents from the Telegram file storage.
// Request logging stays off: the bot token is part of every file URL.
type TelegramFileDownloader struct {
	api   FileGetter
	files *pkghttp.Connector
}

func NewTelegramFileDownloader(api FileGetter, token string, maxFileSize int64) *TelegramFileDownloader {
	return &TelegramFileDownloader{
		api: api,
		files: pkghttp.NewConnector(
			&pkghttp.ConnectorConfig{BaseURL: telegramFileURL + token},
			pkghttp.WithMaxResponseBytes(maxFileSize),
		),
	}
}

func (d *TelegramFileDownloader) Download(ctx context.Context, doc *tgbotapi.Document) (entity.UploadedFile, error) {
	file, err := d.api.GetFile(tgbotapi.FileConfig{FileID: doc.FileID})
	if err != nil {
		return entity.UploadedFile{}, fmt.Errorf("get file: %w", err)
	}

	content, err := d.files.Download(ctx, "/"+file.FilePath)
	if err != nil {
		return entity.UploadedFile{}, err
	}

	return entity.UploadedFile{
		Filename:    validator.SanitizeFilename(doc.FileName),
		ContentType: doc.MimeType,
		Content:     content,
	}, nil
}
