package formatter

import (
	"bytes"
	"strings"

	"github.com/futig/docqa/internal/pkg/office"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

// Format builds the transcript with unioffice when licensed, otherwise with
// the built-in OOXML writer. Both produce the same paragraph layout.
func (df *DOCXFormatter) Format(t Transcript) ([]byte, error) {
	if !office.Licensed() {
		return office.WriteDOCX(transcriptParagraphs(t))
	}

	doc := document.New()
	defer doc.Close()

	addStyled(doc, "Heading1", transcriptTitle)
	for _, line := range metaLines(t) {
		addText(doc, line)
	}
	for _, src := range t.Sources {
		addText(doc, "  "+src)
	}

	for _, turn := range t.Turns {
		doc.AddParagraph()
		addStyled(doc, "Heading2", roleTitle(turn.Role))

		if turn.Reasoning != nil {
			p := doc.AddParagraph()
			r := p.AddRun()
			r.Properties().SetItalic(true)
			addLines(r, *turn.Reasoning)
		}
		addText(doc, turn.Content)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func transcriptParagraphs(t Transcript) []office.Paragraph {
	paras := []office.Paragraph{{Style: "Heading1", Text: transcriptTitle}}
	for _, line := range metaLines(t) {
		paras = append(paras, office.Paragraph{Text: line})
	}
	for _, src := range t.Sources {
		paras = append(paras, office.Paragraph{Text: "  " + src})
	}

	for _, turn := range t.Turns {
		paras = append(paras,
			office.Paragraph{},
			office.Paragraph{Style: "Heading2", Text: roleTitle(turn.Role)},
		)
		if turn.Reasoning != nil {
			paras = append(paras, office.Paragraph{Text: *turn.Reasoning, Italic: true})
		}
		paras = append(paras, office.Paragraph{Text: turn.Content})
	}
	return paras
}

func addStyled(doc *document.Document, style, text string) {
	p := doc.AddParagraph()
	p.SetStyle(style)
	p.AddRun().AddText(text)
}

func addText(doc *document.Document, text string) {
	addLines(doc.AddParagraph().AddRun(), text)
}

// addLines keeps line breaks, which a single AddText would collapse
func addLines(r document.Run, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.AddBreak()
		}
		r.AddText(line)
	}
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
