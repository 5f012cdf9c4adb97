package response

import (
	"net/http"

	"github.com/futig/docqa/internal/entity"
)

const previewLength = 160

// Answer writes a successful interaction result
func Answer(w http.ResponseWriter, result *entity.AnswerResult) {
	JSON(w, http.StatusOK, ToAnswerResponse(result))
}

// ToAnswerResponse converts an AnswerResult to its wire shape
func ToAnswerResponse(result *entity.AnswerResult) entity.AnswerResponse {
	sources := make([]entity.FragmentDTO, 0, len(result.Sources))
	for _, f := range result.Sources {
		sources = append(sources, entity.FragmentDTO{
			SourceName: f.SourceName,
			Offset:     f.Offset,
			Preview:    preview(f.Content),
		})
	}

	return entity.AnswerResponse{
		Answer:    result.Answer,
		Reasoning: result.Reasoning,
		Model:     result.Model,
		Sources:   sources,
		Skipped:   result.Skipped,
	}
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
