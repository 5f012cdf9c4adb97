package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pkg/office"
	"github.com/unidoc/unioffice/document"
)

const docxFileExtension = ".docx"

type DOCXLoader struct {
	tempDir string
}

func NewDOCXLoader(tempDir string) *DOCXLoader {
	return &DOCXLoader{tempDir: tempDir}
}

// Load returns the whole file as one document. unioffice is used once a
// license is activated, otherwise the package is read directly.
func (l *DOCXLoader) Load(ctx context.Context, file entity.UploadedFile) ([]entity.Document, error) {
	var (
		text string
		err  error
	)
	if office.Licensed() {
		text, err = l.loadWithUnioffice(file.Content)
	} else {
		text, err = office.ReadDOCXText(file.Content)
	}
	if err != nil {
		return nil, &entity.LoadError{Filename: file.Filename, Err: err}
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	return []entity.Document{{
		Text:       text,
		SourceName: file.Filename,
	}}, nil
}

// loadWithUnioffice reads body paragraphs first, then table cells
func (l *DOCXLoader) loadWithUnioffice(content []byte) (string, error) {
	var text string
	err := withTempFile(l.tempDir, docxFileExtension, content, func(path string) error {
		doc, err := document.Open(path)
		if err != nil {
			return fmt.Errorf("open docx: %w", err)
		}
		defer doc.Close()

		text = extractText(doc)
		return nil
	})
	return text, err
}

func extractText(doc *document.Document) string {
	lines := make([]string, 0)
	for _, p := range doc.Paragraphs() {
		lines = append(lines, paragraphText(p))
	}

	for _, tbl := range doc.Tables() {
		for _, row := range tbl.Rows() {
			for _, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					lines = append(lines, paragraphText(p))
				}
			}
		}
	}

	return strings.Join(lines, "\n")
}

func paragraphText(p document.Paragraph) string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}
