package ranker

import (
	"sort"
	"strings"

	"github.com/futig/docqa/internal/entity"
)

const DefaultTopK = 6

// Tokens returns the set of lowercase whitespace-delimited tokens of s
func Tokens(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Score is the number of distinct query tokens that also occur in content
func Score(queryTokens map[string]struct{}, content string) int {
	score := 0
	for token := range Tokens(content) {
		if _, ok := queryTokens[token]; ok {
			score++
		}
	}
	return score
}

// Rank returns at most topK fragments ordered by descending score.
// Equal scores keep the input order, so results are deterministic.
func Rank(fragments []entity.Fragment, query string, topK int) []entity.ScoredFragment {
	if topK <= 0 || len(fragments) == 0 {
		return []entity.ScoredFragment{}
	}

	queryTokens := Tokens(query)
	scored := make([]entity.ScoredFragment, len(fragments))
	for i, f := range fragments {
		scored[i] = entity.ScoredFragment{
			Fragment: f,
			Score:    Score(queryTokens, f.Content),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored
}
