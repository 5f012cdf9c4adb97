package formatter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pkg/office"
)

func sampleSession() entity.Session {
	reasoning := "<think>the user greets</think>"
	return entity.Session{
		ID:    "3f1c",
		Model: "gemma3:1b",
		Documents: []entity.Document{
			{SourceName: "a.pdf (page 1)"},
			{SourceName: "a.pdf (page 1)"},
			{SourceName: "b.docx"},
		},
		Turns: []entity.ConversationTurn{
			{Role: entity.RoleUser, Content: "hello"},
			{Role: entity.RoleAssistant, Content: "Hi there!\nHow can I help?", Reasoning: &reasoning},
		},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestNewTranscript_DeduplicatesSources(t *testing.T) {
	tr := NewTranscript(sampleSession())
	if len(tr.Sources) != 2 || tr.Sources[0] != "a.pdf (page 1)" || tr.Sources[1] != "b.docx" {
		t.Errorf("unexpected sources: %v", tr.Sources)
	}
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(NewTranscript(sampleSession()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	md := string(out)
	for _, want := range []string{
		"# Chat transcript\n",
		"- Session: 3f1c\n",
		"- Model: gemma3:1b\n",
		"- Started: 2026-01-02T03:04:05Z\n",
		"  - b.docx\n",
		"## User\n\nhello\n",
		"<summary>Reasoning</summary>\n\n<think>the user greets</think>",
		"Hi there!\nHow can I help?\n",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown is missing %q:\n%s", want, md)
		}
	}
	if strings.Index(md, "## User") > strings.Index(md, "## Assistant") {
		t.Error("turns must keep their order")
	}
}

func TestPDFFormatter(t *testing.T) {
	out, err := NewPDFFormatter().Format(NewTranscript(sampleSession()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", out[:10])
	}
}

func TestDOCXFormatter(t *testing.T) {
	out, err := NewDOCXFormatter().Format(NewTranscript(sampleSession()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("PK")) {
		t.Fatalf("output is not a zip archive: %q", out[:4])
	}

	text, err := office.ReadDOCXText(out)
	if err != nil {
		t.Fatalf("transcript is unreadable: %v", err)
	}
	for _, want := range []string{"Chat transcript", "Session: 3f1c", "User\nhello", "Hi there!\nHow can I help?"} {
		if !strings.Contains(text, want) {
			t.Errorf("docx text is missing %q:\n%s", want, text)
		}
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory()

	tests := []struct {
		format entity.ResultFormat
		ext    string
	}{
		{entity.FormatMarkdown, ".md"},
		{entity.FormatDOCX, ".docx"},
		{entity.FormatPDF, ".pdf"},
	}
	for _, tt := range tests {
		fm, err := f.Create(tt.format)
		if err != nil {
			t.Fatalf("%s: %v", tt.format, err)
		}
		if fm.FileExtension() != tt.ext {
			t.Errorf("%s: unexpected extension %q", tt.format, fm.FileExtension())
		}
	}

	if _, err := f.Create("html"); !errors.Is(err, entity.ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}
