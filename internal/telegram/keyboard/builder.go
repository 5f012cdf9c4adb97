package keyboard

import (
	"github.com/futig/docqa/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram rejects callback data longer than 64 bytes
const maxCallbackData = 64

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// ModelKeyboard lists the catalog models, one per row. The current one is marked.
func (b *Builder) ModelKeyboard(models []entity.ModelInfo, current string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(models))
	for _, m := range models {
		data := EncodeCallback(ActionModel, m.ID)
		if len(data) > maxCallbackData {
			continue
		}

		label := m.ID
		if m.ID == current {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, data),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// ExportKeyboard creates transcript download buttons
func (b *Builder) ExportKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 Markdown", EncodeCallback(ActionExport, string(entity.FormatMarkdown))),
			tgbotapi.NewInlineKeyboardButtonData("📝 DOCX", EncodeCallback(ActionExport, string(entity.FormatDOCX))),
			tgbotapi.NewInlineKeyboardButtonData("📕 PDF", EncodeCallback(ActionExport, string(entity.FormatPDF))),
		),
	)
}

// NewChatKeyboard offers to drop the current context and start over
func (b *Builder) NewChatKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🆕 New chat", EncodeCallback(ActionNew, "new")),
		),
	)
}
