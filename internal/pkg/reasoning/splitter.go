package reasoning

import (
	"strings"

	"github.com/futig/docqa/internal/entity"
)

const (
	OpenMarker  = "<think>"
	CloseMarker = "</think>"
)

// Split separates the first <think>...</think> span from the answer.
// Only the first occurrence of each marker is considered; without a well-ordered
// pair the raw response is the answer as is.
func Split(raw string) entity.ModelResponse {
	open := strings.Index(raw, OpenMarker)
	closeAt := strings.Index(raw, CloseMarker)
	if open < 0 || closeAt < 0 || closeAt < open {
		return entity.ModelResponse{Answer: raw}
	}

	end := closeAt + len(CloseMarker)
	span := raw[open:end]

	return entity.ModelResponse{
		Answer:    strings.TrimSpace(raw[:open] + raw[end:]),
		Reasoning: &span,
	}
}
