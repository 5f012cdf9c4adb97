package keyboard

import (
	"strings"
	"testing"

	"github.com/futig/docqa/internal/entity"
)

func TestParseCallback_ModelWithColon(t *testing.T) {
	data, err := ParseCallback(EncodeCallback(ActionModel, "gemma3:1b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Action != ActionModel || data.Value != "gemma3:1b" {
		t.Errorf("unexpected callback: %+v", data)
	}
}

func TestParseCallback_Invalid(t *testing.T) {
	for _, raw := range []string{"", "nocolon", ":value"} {
		if _, err := ParseCallback(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestModelKeyboard(t *testing.T) {
	models := []entity.ModelInfo{
		{ID: "gemma3:1b"},
		{ID: "qwen3:4b"},
		{ID: strings.Repeat("x", 80)},
	}

	kb := NewBuilder().ModelKeyboard(models, "qwen3:4b")

	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("expected 2 rows (oversized id dropped), got %d", len(kb.InlineKeyboard))
	}
	if kb.InlineKeyboard[0][0].Text != "gemma3:1b" {
		t.Errorf("unexpected label: %q", kb.InlineKeyboard[0][0].Text)
	}
	if kb.InlineKeyboard[1][0].Text != "✅ qwen3:4b" {
		t.Errorf("current model must be marked, got %q", kb.InlineKeyboard[1][0].Text)
	}
	if got := *kb.InlineKeyboard[1][0].CallbackData; got != "model:qwen3:4b" {
		t.Errorf("unexpected callback data: %q", got)
	}
}
