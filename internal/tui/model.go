package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/futig/docqa/internal/entity"
)

// ChatPort is the TUI-facing subset of the chat usecase
type ChatPort interface {
	CreateSession(ctx context.Context, model string) (*entity.Session, error)
	AttachFiles(ctx context.Context, id string, files []entity.UploadedFile) (*entity.Session, []string, error)
	SendMessage(ctx context.Context, id, message string) (*entity.AnswerResult, error)
	SetModel(ctx context.Context, id, model string) (*entity.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type entryKind int

const (
	entryUser entryKind = iota
	entryAssistant
	entryInfo
	entryError
)

type entry struct {
	kind      entryKind
	text      string
	reasoning *string
}

// answerMsg carries the outcome of an async model call back into Update
type answerMsg struct {
	result *entity.AnswerResult
	err    error
}

type attachMsg struct {
	session *entity.Session
	names   []string
	skipped []string
	err     error
}

type sessionMsg struct {
	session *entity.Session
	info    string
	err     error
}

// Model is the Bubble Tea model of the terminal chat
type Model struct {
	ctx           context.Context
	chat          ChatPort
	session       *entity.Session
	input         textinput.Model
	viewport      viewport.Model
	entries       []entry
	status        string
	pending       bool
	showReasoning bool
	ready         bool
	readFile      func(string) ([]byte, error)
}

// New creates a TUI bound to an existing chat session
func New(ctx context.Context, chat ChatPort, session *entity.Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, or /help"
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		ctx:      ctx,
		chat:     chat,
		session:  session,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   fmt.Sprintf("Model %s. Type /help for commands.", session.Model),
		readFile: os.ReadFile,
	}
}

// Init initializes the model (text input cursor blink)
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and async result events
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := historyBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-fh)
		m.refresh()
		return m, nil

	case answerMsg:
		m.pending = false
		if msg.err != nil {
			m.entries = append(m.entries, entry{kind: entryError, text: msg.err.Error()})
			m.status = "The model call failed, the question was not added to the history."
		} else {
			m.entries = append(m.entries, entry{kind: entryAssistant, text: msg.result.Answer, reasoning: msg.result.Reasoning})
			m.status = fmt.Sprintf("Answered by %s.", msg.result.Model)
		}
		m.refresh()
		return m, nil

	case attachMsg:
		m.pending = false
		if msg.err != nil {
			m.entries = append(m.entries, entry{kind: entryError, text: msg.err.Error()})
		} else {
			m.session = msg.session
			text := fmt.Sprintf("Attached %s (%d document parts in context).", strings.Join(msg.names, ", "), len(msg.session.Documents))
			if len(msg.skipped) > 0 {
				text += " Skipped: " + strings.Join(msg.skipped, ", ")
			}
			m.entries = append(m.entries, entry{kind: entryInfo, text: text})
		}
		m.refresh()
		return m, nil

	case sessionMsg:
		m.pending = false
		if msg.err != nil {
			m.entries = append(m.entries, entry{kind: entryError, text: msg.err.Error()})
		} else {
			m.session = msg.session
			m.entries = append(m.entries, entry{kind: entryInfo, text: msg.info})
			m.status = fmt.Sprintf("Model %s.", m.session.Model)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			line := strings.TrimSpace(m.input.Value())
			if line == "" || m.pending {
				return m, nil
			}
			m.input.SetValue("")
			return m.submit(line)
		}
	}

	var inputCmd, viewCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, viewCmd = m.viewport.Update(msg)
	return m, tea.Batch(inputCmd, viewCmd)
}

func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	if !strings.HasPrefix(line, "/") {
		m.entries = append(m.entries, entry{kind: entryUser, text: line})
		m.pending = true
		m.status = "Waiting for the model..."
		m.refresh()
		return m, m.ask(line)
	}

	command, args, _ := strings.Cut(line, " ")
	args = strings.TrimSpace(args)

	switch command {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/help":
		m.entries = append(m.entries, entry{kind: entryInfo, text: helpText})
	case "/reasoning":
		m.showReasoning = !m.showReasoning
		m.status = fmt.Sprintf("Reasoning shown: %t", m.showReasoning)
	case "/attach":
		if args == "" {
			m.entries = append(m.entries, entry{kind: entryError, text: "usage: /attach <file> [file...]"})
			break
		}
		m.pending = true
		m.status = "Loading documents..."
		m.refresh()
		return m, m.attach(strings.Fields(args))
	case "/model":
		if args == "" {
			m.entries = append(m.entries, entry{kind: entryInfo, text: "Current model: " + m.session.Model})
			break
		}
		m.pending = true
		m.refresh()
		return m, m.setModel(args)
	case "/new":
		m.entries = nil
		m.pending = true
		m.refresh()
		return m, m.reset()
	default:
		m.entries = append(m.entries, entry{kind: entryError, text: "unknown command " + command})
	}

	m.refresh()
	return m, nil
}

func (m Model) ask(question string) tea.Cmd {
	ctx, chat, id := m.ctx, m.chat, m.session.ID
	return func() tea.Msg {
		result, err := chat.SendMessage(ctx, id, question)
		return answerMsg{result: result, err: err}
	}
}

func (m Model) attach(paths []string) tea.Cmd {
	ctx, chat, id, readFile := m.ctx, m.chat, m.session.ID, m.readFile
	return func() tea.Msg {
		files, err := ReadFiles(paths, readFile)
		if err != nil {
			return attachMsg{err: err}
		}
		session, skipped, err := chat.AttachFiles(ctx, id, files)
		names := make([]string, 0, len(files))
		for _, f := range files {
			names = append(names, f.Filename)
		}
		return attachMsg{session: session, names: names, skipped: skipped, err: err}
	}
}

func (m Model) setModel(model string) tea.Cmd {
	ctx, chat, id := m.ctx, m.chat, m.session.ID
	return func() tea.Msg {
		session, err := chat.SetModel(ctx, id, model)
		if err != nil {
			return sessionMsg{err: err}
		}
		return sessionMsg{session: session, info: "Switched to " + session.Model}
	}
}

func (m Model) reset() tea.Cmd {
	ctx, chat, old := m.ctx, m.chat, m.session
	return func() tea.Msg {
		session, err := chat.CreateSession(ctx, old.Model)
		if err != nil {
			return sessionMsg{err: err}
		}
		// the old session is abandoned either way, a failed delete only delays its expiry
		_ = chat.DeleteSession(ctx, old.ID)
		return sessionMsg{session: session, info: "New chat started."}
	}
}

// ReadFiles loads local files in the order given
func ReadFiles(paths []string, readFile func(string) ([]byte, error)) ([]entity.UploadedFile, error) {
	files := make([]entity.UploadedFile, 0, len(paths))
	for _, p := range paths {
		content, err := readFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, entity.UploadedFile{
			Filename: filepath.Base(p),
			Content:  content,
		})
	}
	return files, nil
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

// View renders the header, history, input and status line
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("DocQA chat")
	history := historyBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + history + "\n" + input + "\n" + status
}

func (m Model) renderHistory() string {
	if len(m.entries) == 0 {
		return infoStyle.Render("No messages yet.")
	}

	blocks := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		switch e.kind {
		case entryUser:
			blocks = append(blocks, userStyle.Render("You: ")+e.text)
		case entryAssistant:
			block := assistantStyle.Render("Assistant: ") + e.text
			if m.showReasoning && e.reasoning != nil {
				block = reasoningStyle.Render("Reasoning: "+*e.reasoning) + "\n" + block
			}
			blocks = append(blocks, block)
		case entryInfo:
			blocks = append(blocks, infoStyle.Render(e.text))
		case entryError:
			blocks = append(blocks, errorStyle.Render("Error: "+e.text))
		}
	}
	return strings.Join(blocks, "\n\n")
}

const helpText = `Commands:
  /attach <file>...  add PDF or DOCX files to the context
  /model [id]        show or switch the model
  /reasoning         toggle the model's reasoning
  /new               start over with an empty chat
  /quit              exit`

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	historyBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	reasoningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	infoStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
