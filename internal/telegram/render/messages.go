package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/docqa/internal/entity"
	pkghttp "github.com/futig/docqa/pkg/http"
)

// MaxMessageLength is the Telegram limit for one text message
const MaxMessageLength = 4096

const (
	MsgWelcome = `👋 Hi! Send me PDF or DOCX files and ask questions about them.

You can also just chat: without documents I answer from the model alone.`

	MsgHelp = `🤖 Commands:

/start - Show the welcome message
/new - Start a new chat (drops documents and history)
/model - Choose the model
/export - Download the chat transcript
/help - Show this help

Send PDF or DOCX files at any time to add them to the chat context.`

	MsgNewChat       = `🆕 New chat started with model %s.`
	MsgModelSelect   = `🧠 Current model: %s. Choose another one:`
	MsgModelChanged  = `✅ Model switched to %s.`
	MsgExportChoose  = `💾 Choose the transcript format:`
	MsgFilesAttached = `📎 Added %s. The chat now has %d document part(s).`
	MsgFilesSkipped  = `⚠️ Skipped: %s`
	MsgReasoning     = "💭 Reasoning:\n%s"

	ErrGeneric            = `❌ Something went wrong. Try again or start over with /new`
	ErrEmptyInput         = `❌ Please send a question or a document.`
	ErrNoText             = `❌ Could not read any text from these files. Only PDF and DOCX with a text layer are supported.`
	ErrUnknownModel       = `❌ Unknown model. Use /model to see the available ones.`
	ErrFileTooLarge       = `❌ The file is too large.`
	ErrServiceUnavailable = `❌ The model is not reachable right now. Try again in a couple of minutes.`
	ErrTimeout            = `❌ The model took too long to answer. Try again.`
)

// RenderAnswer formats a chat answer. Reasoning, when present, goes first as
// its own block so the answer stays at the bottom of the chat.
func RenderAnswer(result *entity.AnswerResult) []string {
	messages := make([]string, 0, 2)
	if result.Reasoning != nil && strings.TrimSpace(*result.Reasoning) != "" {
		messages = append(messages, SplitMessage(fmt.Sprintf(MsgReasoning, *result.Reasoning))...)
	}
	return append(messages, SplitMessage(result.Answer)...)
}

// RenderAttached describes the outcome of a document upload
func RenderAttached(filenames []string, documentCount int, skipped []string) string {
	text := fmt.Sprintf(MsgFilesAttached, strings.Join(filenames, ", "), documentCount)
	if len(skipped) > 0 {
		text += "\n" + fmt.Sprintf(MsgFilesSkipped, strings.Join(skipped, ", "))
	}
	return text
}

// SplitMessage cuts text into Telegram-sized parts, preferring line breaks
func SplitMessage(text string) []string {
	if text == "" {
		return []string{"…"}
	}

	var parts []string
	for utf8.RuneCountInString(text) > MaxMessageLength {
		runes := []rune(text)
		cut := MaxMessageLength
		if i := strings.LastIndex(string(runes[:MaxMessageLength]), "\n"); i > 0 {
			cut = utf8.RuneCountInString(string(runes[:MaxMessageLength])[:i])
		}
		parts = append(parts, string(runes[:cut]))
		text = strings.TrimLeft(string(runes[cut:]), "\n")
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

// ClassifyError analyzes an error and returns an appropriate user-friendly message
func ClassifyError(err error) string {
	if err == nil {
		return ErrGeneric
	}

	var (
		noText   *entity.NoTextError
		netErr   *pkghttp.NetworkError
		modelErr *entity.ModelInvocationError
	)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.As(err, &noText):
		return ErrNoText
	case errors.Is(err, entity.ErrEmptyInput):
		return ErrEmptyInput
	case errors.Is(err, entity.ErrUnknownModel):
		return ErrUnknownModel
	case errors.Is(err, entity.ErrFileTooLarge), errors.Is(err, entity.ErrTotalSizeTooLarge):
		return ErrFileTooLarge
	case errors.As(err, &netErr):
		return ErrServiceUnavailable
	case errors.As(err, &modelErr):
		// the user sees the model failure verbatim
		return "❌ " + modelErr.Error()
	}

	return ErrGeneric
}
