package chunker

import (
	"fmt"

	"github.com/futig/docqa/internal/entity"
)

const (
	DefaultSize    = 1000
	DefaultOverlap = 100
)

// Boundary classes in order of preference. A cut is placed right after the separator.
var separatorLevels = [][]string{
	{"\n\n"},
	{". ", "! ", "? ", "\n"},
	{" ", "\t"},
}

// Chunker splits documents into fixed-size fragments that overlap by a fixed
// number of characters. Sizes are counted in runes.
type Chunker struct {
	size    int
	overlap int
	levels  [][][]rune
}

func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}

	levels := make([][][]rune, 0, len(separatorLevels))
	for _, seps := range separatorLevels {
		runes := make([][]rune, 0, len(seps))
		for _, sep := range seps {
			runes = append(runes, []rune(sep))
		}
		levels = append(levels, runes)
	}

	return &Chunker{
		size:    size,
		overlap: overlap,
		levels:  levels,
	}, nil
}

func (c *Chunker) Size() int    { return c.size }
func (c *Chunker) Overlap() int { return c.overlap }

// Split chunks every document in order. Fragments keep document order, then offset order.
func (c *Chunker) Split(docs []entity.Document) []entity.Fragment {
	fragments := make([]entity.Fragment, 0)
	for _, doc := range docs {
		fragments = append(fragments, c.SplitDocument(doc)...)
	}
	return fragments
}

// SplitDocument chunks a single document. Every fragment after the first starts
// with the last c.overlap characters of its predecessor.
func (c *Chunker) SplitDocument(doc entity.Document) []entity.Fragment {
	text := []rune(doc.Text)
	if len(text) == 0 {
		return nil
	}

	var fragments []entity.Fragment
	start := 0
	for {
		end := start + c.size
		if end >= len(text) {
			end = len(text)
		} else {
			end = c.cutPoint(text, start, end)
		}

		fragments = append(fragments, entity.Fragment{
			Content:    string(text[start:end]),
			SourceName: doc.SourceName,
			Offset:     start,
		})

		if end == len(text) {
			return fragments
		}
		start = end - c.overlap
	}
}

// cutPoint picks the cut nearest to limit, trying paragraph, sentence and word
// boundaries in turn. Cuts at or before start+overlap would stall the window.
func (c *Chunker) cutPoint(text []rune, start, limit int) int {
	lowest := start + c.overlap
	for _, seps := range c.levels {
		if cut := lastBoundary(text, start, lowest, limit, seps); cut > 0 {
			return cut
		}
	}
	return limit
}

func lastBoundary(text []rune, start, lowest, limit int, seps [][]rune) int {
	for i := limit; i > lowest; i-- {
		for _, sep := range seps {
			from := i - len(sep)
			if from >= start && hasPrefixAt(text, from, sep) {
				return i
			}
		}
	}
	return 0
}

func hasPrefixAt(text []rune, at int, sep []rune) bool {
	if at+len(sep) > len(text) {
		return false
	}
	for j, r := range sep {
		if text[at+j] != r {
			return false
		}
	}
	return true
}
