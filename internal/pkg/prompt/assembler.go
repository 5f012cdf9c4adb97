package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/docqa/internal/entity"
)

const DefaultHistoryWindow = 8

type Mode string

const (
	ModeDocumentQA Mode = "document_qa"
	ModeChat       Mode = "chat"
)

const (
	documentQAPreamble = "You are an assistant. Answer the question using the documents below."
	chatPreamble       = "You are a helpful assistant. Use the documents and the conversation below when they are relevant."

	sectionSeparator = "\n\n"
)

// Input is everything a prompt is built from
type Input struct {
	Mode      Mode
	Fragments []entity.ScoredFragment
	History   []entity.ConversationTurn
	Question  string
}

// Assembler composes the final prompt. The result is not truncated against any
// model context window.
type Assembler struct {
	historyWindow int
}

func NewAssembler(historyWindow int) *Assembler {
	if historyWindow < 0 {
		historyWindow = 0
	}
	return &Assembler{historyWindow: historyWindow}
}

// Build joins preamble, retrieved context, recent history and the question with
// blank lines, always in that order. Empty sections are left out.
func (a *Assembler) Build(in Input) string {
	sections := []string{preamble(in.Mode)}

	if len(in.Fragments) > 0 {
		contents := make([]string, 0, len(in.Fragments))
		for _, f := range in.Fragments {
			contents = append(contents, f.Content)
		}
		sections = append(sections, "Documents:\n"+strings.Join(contents, "\n"))
	}

	if in.Mode == ModeChat {
		if history := a.renderHistory(in.History); history != "" {
			sections = append(sections, "Conversation:\n"+history)
		}
	}

	sections = append(sections, fmt.Sprintf("Question: %s", in.Question))

	return strings.Join(sections, sectionSeparator)
}

// Window returns the trailing turns that fit in the history window, oldest first
func (a *Assembler) Window(turns []entity.ConversationTurn) []entity.ConversationTurn {
	if len(turns) <= a.historyWindow {
		return turns
	}
	return turns[len(turns)-a.historyWindow:]
}

func (a *Assembler) renderHistory(turns []entity.ConversationTurn) string {
	window := a.Window(turns)
	lines := make([]string, 0, len(window))
	for _, turn := range window {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}
	return strings.Join(lines, "\n")
}

func preamble(mode Mode) string {
	if mode == ModeChat {
		return chatPreamble
	}
	return documentQAPreamble
}

// EstimateTokens is a rough chars/4 estimate, only good enough for log warnings
func EstimateTokens(prompt string) int {
	return (utf8.RuneCountInString(prompt) + 3) / 4
}
