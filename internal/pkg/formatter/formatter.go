package formatter

import (
	"fmt"
	"time"

	"github.com/futig/docqa/internal/entity"
)

const transcriptTitle = "Chat transcript"

// Transcript is the exportable view of a chat session
type Transcript struct {
	SessionID string
	Model     string
	Sources   []string
	Turns     []entity.ConversationTurn
	CreatedAt time.Time
}

func NewTranscript(s entity.Session) Transcript {
	seen := make(map[string]struct{})
	sources := make([]string, 0)
	for _, d := range s.Documents {
		if _, ok := seen[d.SourceName]; ok {
			continue
		}
		seen[d.SourceName] = struct{}{}
		sources = append(sources, d.SourceName)
	}

	return Transcript{
		SessionID: s.ID,
		Model:     s.Model,
		Sources:   sources,
		Turns:     s.Turns,
		CreatedAt: s.CreatedAt,
	}
}

type Formatter interface {
	Format(t Transcript) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidFormat, format)
	}
}

func roleTitle(role entity.Role) string {
	if role == entity.RoleAssistant {
		return "Assistant"
	}
	return "User"
}

func metaLines(t Transcript) []string {
	lines := []string{
		"Session: " + t.SessionID,
		"Model: " + t.Model,
	}
	if !t.CreatedAt.IsZero() {
		lines = append(lines, "Started: "+t.CreatedAt.UTC().Format(time.RFC3339))
	}
	if len(t.Sources) > 0 {
		lines = append(lines, fmt.Sprintf("Documents: %d", len(t.Sources)))
	}
	return lines
}
