package formatter

import (
	"bytes"
	"fmt"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(t Transcript) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", transcriptTitle)
	for _, line := range metaLines(t) {
		fmt.Fprintf(&buf, "- %s\n", line)
	}
	for _, src := range t.Sources {
		fmt.Fprintf(&buf, "  - %s\n", src)
	}

	for _, turn := range t.Turns {
		fmt.Fprintf(&buf, "\n## %s\n\n", roleTitle(turn.Role))
		if turn.Reasoning != nil {
			fmt.Fprintf(&buf, "<details>\n<summary>Reasoning</summary>\n\n%s\n\n</details>\n\n", *turn.Reasoning)
		}
		fmt.Fprintf(&buf, "%s\n", turn.Content)
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
