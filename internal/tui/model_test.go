package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/futig/docqa/internal/entity"
)

type fakeChat struct {
	question string
	files    []entity.UploadedFile
	err      error
}

func (f *fakeChat) CreateSession(_ context.Context, model string) (*entity.Session, error) {
	return &entity.Session{ID: "s2", Model: model}, nil
}

func (f *fakeChat) AttachFiles(_ context.Context, id string, files []entity.UploadedFile) (*entity.Session, []string, error) {
	f.files = files
	return &entity.Session{ID: id, Model: "gemma3:1b", Documents: []entity.Document{{Text: "x"}}}, nil, nil
}

func (f *fakeChat) SendMessage(_ context.Context, id, message string) (*entity.AnswerResult, error) {
	f.question = message
	if f.err != nil {
		return nil, f.err
	}
	reasoning := "hmm"
	return &entity.AnswerResult{Answer: "Paris", Reasoning: &reasoning, Model: "gemma3:1b"}, nil
}

func (f *fakeChat) SetModel(_ context.Context, id, model string) (*entity.Session, error) {
	return &entity.Session{ID: id, Model: model}, nil
}

func (f *fakeChat) DeleteSession(context.Context, string) error { return nil }

func newTestModel(chat ChatPort) Model {
	m := New(context.Background(), chat, &entity.Session{ID: "s1", Model: "gemma3:1b"})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return updated.(Model)
}

func typeLine(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

// run executes an async command and feeds its message back into the model
func run(m Model, cmd tea.Cmd) Model {
	if cmd == nil {
		return m
	}
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func TestAsk(t *testing.T) {
	chat := &fakeChat{}
	m, cmd := typeLine(t, newTestModel(chat), "capital of France?")

	if !m.pending {
		t.Error("model must be pending while the answer is computed")
	}
	if m.input.Value() != "" {
		t.Error("input must be cleared after submit")
	}

	m = run(m, cmd)

	if chat.question != "capital of France?" {
		t.Errorf("unexpected question: %q", chat.question)
	}
	if m.pending {
		t.Error("pending must be cleared after the answer")
	}
	if len(m.entries) != 2 || m.entries[1].text != "Paris" {
		t.Fatalf("unexpected entries: %+v", m.entries)
	}
	if strings.Contains(m.renderHistory(), "Reasoning: hmm") {
		t.Error("reasoning must be hidden by default")
	}

	m, _ = typeLine(t, m, "/reasoning")
	if !strings.Contains(m.renderHistory(), "Reasoning: hmm") {
		t.Error("reasoning must be shown after toggling")
	}
}

func TestAsk_Failure(t *testing.T) {
	chat := &fakeChat{err: errors.New("model gemma3:1b: connection refused")}
	m, cmd := typeLine(t, newTestModel(chat), "hi")
	m = run(m, cmd)

	last := m.entries[len(m.entries)-1]
	if last.kind != entryError || last.text != "model gemma3:1b: connection refused" {
		t.Errorf("unexpected last entry: %+v", last)
	}
}

func TestAttach(t *testing.T) {
	chat := &fakeChat{}
	m := newTestModel(chat)
	m.readFile = func(path string) ([]byte, error) {
		if path == "missing.pdf" {
			return nil, errors.New("no such file")
		}
		return []byte("data of " + path), nil
	}

	m, cmd := typeLine(t, m, "/attach docs/a.pdf docs/b.docx")
	m = run(m, cmd)

	if len(chat.files) != 2 || chat.files[0].Filename != "a.pdf" || string(chat.files[1].Content) != "data of docs/b.docx" {
		t.Errorf("unexpected files: %+v", chat.files)
	}
	if len(m.session.Documents) != 1 {
		t.Errorf("session must be updated, got %+v", m.session)
	}

	m, cmd = typeLine(t, m, "/attach missing.pdf")
	m = run(m, cmd)
	if last := m.entries[len(m.entries)-1]; last.kind != entryError {
		t.Errorf("expected read error entry, got %+v", last)
	}
}

func TestModelAndNew(t *testing.T) {
	m := newTestModel(&fakeChat{})

	m, cmd := typeLine(t, m, "/model qwen3:4b")
	m = run(m, cmd)
	if m.session.Model != "qwen3:4b" {
		t.Errorf("expected model switch, got %q", m.session.Model)
	}

	m, cmd = typeLine(t, m, "/new")
	m = run(m, cmd)
	if m.session.ID != "s2" || m.session.Model != "qwen3:4b" {
		t.Errorf("unexpected new session: %+v", m.session)
	}
}

func TestEnterIgnoredWhilePending(t *testing.T) {
	m, _ := typeLine(t, newTestModel(&fakeChat{}), "first")

	m, cmd := typeLine(t, m, "second")
	if cmd != nil {
		t.Error("no new request may start while one is pending")
	}
	if len(m.entries) != 1 {
		t.Errorf("expected only the first question, got %+v", m.entries)
	}
}
