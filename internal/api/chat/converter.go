package chat

import "github.com/futig/docqa/internal/entity"

// toSessionDTO converts Session entity to SessionDTO
func toSessionDTO(session *entity.Session) *entity.SessionDTO {
	seen := make(map[string]struct{})
	sources := make([]string, 0)
	for _, doc := range session.Documents {
		if _, ok := seen[doc.SourceName]; ok {
			continue
		}
		seen[doc.SourceName] = struct{}{}
		sources = append(sources, doc.SourceName)
	}

	turns := session.Turns
	if turns == nil {
		turns = []entity.ConversationTurn{}
	}

	return &entity.SessionDTO{
		ID:            session.ID,
		Model:         session.Model,
		DocumentCount: len(session.Documents),
		Sources:       sources,
		Turns:         turns,
		CreatedAt:     session.CreatedAt,
		UpdatedAt:     session.UpdatedAt,
	}
}
