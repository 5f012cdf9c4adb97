package bot

import (
	"testing"

	"github.com/futig/docqa/internal/telegram/handlers"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestNormalize(t *testing.T) {
	chat := &tgbotapi.Chat{ID: 5}
	from := &tgbotapi.User{ID: 9}

	command := tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     chat,
		From:     from,
		Text:     "/model qwen3:4b",
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}}
	kind, msg := normalize(command)
	if kind != handlers.HandlerKindCommand || msg.Command != "model" || msg.CommandArgs != "qwen3:4b" {
		t.Errorf("unexpected command normalization: %s %+v", kind, msg)
	}

	doc := tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     chat,
		From:     from,
		Caption:  "what is this?",
		Document: &tgbotapi.Document{FileID: "f"},
	}}
	kind, msg = normalize(doc)
	if kind != handlers.HandlerKindDocument || msg.Text != "what is this?" || msg.Document == nil {
		t.Errorf("unexpected document normalization: %s %+v", kind, msg)
	}

	text := tgbotapi.Update{Message: &tgbotapi.Message{Chat: chat, From: from, Text: "hi"}}
	kind, msg = normalize(text)
	if kind != handlers.HandlerKindText || msg.Text != "hi" || msg.UserID != 9 || msg.ChatID != 5 {
		t.Errorf("unexpected text normalization: %s %+v", kind, msg)
	}

	callback := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    from,
		Message: &tgbotapi.Message{Chat: chat},
		Data:    "model:gemma3:1b",
	}}
	kind, msg = normalize(callback)
	if kind != handlers.HandlerKindCallback || msg.CallbackData != "model:gemma3:1b" || msg.CallbackID != "cb" {
		t.Errorf("unexpected callback normalization: %s %+v", kind, msg)
	}

	if _, msg := normalize(tgbotapi.Update{}); msg != nil {
		t.Error("empty update must be ignored")
	}
}
