package loader

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/futig/docqa/internal/entity"
	"rsc.io/pdf"
)

const pdfFileExtension = ".pdf"

type PDFLoader struct {
	tempDir string
}

func NewPDFLoader(tempDir string) *PDFLoader {
	return &PDFLoader{tempDir: tempDir}
}

// Load returns one document per page that has any text
func (l *PDFLoader) Load(ctx context.Context, file entity.UploadedFile) ([]entity.Document, error) {
	var docs []entity.Document

	err := withTempFile(l.tempDir, pdfFileExtension, file.Content, func(path string) error {
		pages, err := extractPages(path)
		if err != nil {
			return err
		}

		for i, text := range pages {
			if strings.TrimSpace(text) == "" {
				continue
			}
			docs = append(docs, entity.Document{
				Text:       text,
				SourceName: fmt.Sprintf("%s (page %d)", file.Filename, i+1),
			})
		}
		return nil
	})
	if err != nil {
		return nil, &entity.LoadError{Filename: file.Filename, Err: err}
	}

	return docs, nil
}

// extractPages reads the text of every page. rsc.io/pdf panics on some
// malformed streams, so a panic is turned into an error.
func extractPages(path string) (pages []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat pdf: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	pages = make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() || p.V.Key("Contents").IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageText(p))
	}

	return pages, nil
}

// TJ adjustments are in thousandths of the font size; a gap wider than this
// is treated as a word space
const tjSpaceThreshold = 200

// pageText rebuilds the text of one page from its content stream. Glyph-level
// extraction drops spaces, so strings are decoded whole with the active font
// encoding. A change of text line becomes a newline and a new text block on
// the same line is separated by a space.
func pageText(p pdf.Page) string {
	var (
		sb       strings.Builder
		enc      pdf.TextEncoding = rawEncoding{}
		lineY    float64
		lastY    float64
		leading  float64
		hasText  bool
		newBlock bool
	)

	emit := func(raw string) {
		s := strings.ReplaceAll(enc.Decode(raw), "\x00", "")
		if s == "" {
			return
		}
		if hasText {
			switch {
			case math.Abs(lineY-lastY) > 0.01:
				breakLine(&sb)
			case newBlock:
				space(&sb)
			}
		}
		sb.WriteString(s)
		hasText, newBlock, lastY = true, false, lineY
	}

	interpretContents(p.V.Key("Contents"), func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}

		switch op {
		case "BT":
			lineY, newBlock = 0, true
		case "Tf":
			if n == 2 {
				enc = p.Font(args[0].Name()).Encoder()
			}
		case "TL":
			if n == 1 {
				leading = args[0].Float64()
			}
		case "Tm":
			if n == 6 {
				lineY = args[5].Float64()
			}
		case "Td", "TD":
			if n == 2 {
				lineY += args[1].Float64()
				if op == "TD" {
					leading = -args[1].Float64()
				}
			}
		case "T*":
			lineY -= leading
			breakLine(&sb)
		case "Tj":
			if n == 1 {
				emit(args[0].RawString())
			}
		case "'":
			if n == 1 {
				lineY -= leading
				emit(args[0].RawString())
			}
		case "\"":
			if n == 3 {
				lineY -= leading
				emit(args[2].RawString())
			}
		case "TJ":
			if n != 1 {
				return
			}
			v := args[0]
			for i := 0; i < v.Len(); i++ {
				x := v.Index(i)
				if x.Kind() == pdf.String {
					emit(x.RawString())
				} else if -x.Float64() > tjSpaceThreshold && hasText {
					space(&sb)
				}
			}
		}
	})

	return sb.String()
}

// interpretContents runs every stream of a page; Contents may be one stream
// or an array of streams that form a single program
func interpretContents(contents pdf.Value, do func(stk *pdf.Stack, op string)) {
	if contents.Kind() != pdf.Array {
		pdf.Interpret(contents, do)
		return
	}
	for i := 0; i < contents.Len(); i++ {
		pdf.Interpret(contents.Index(i), do)
	}
}

func breakLine(sb *strings.Builder) {
	if last, ok := lastByte(sb); ok && last != '\n' {
		sb.WriteByte('\n')
	}
}

func space(sb *strings.Builder) {
	if last, ok := lastByte(sb); ok && last != ' ' && last != '\n' {
		sb.WriteByte(' ')
	}
}

func lastByte(sb *strings.Builder) (byte, bool) {
	if sb.Len() == 0 {
		return 0, false
	}
	s := sb.String()
	return s[len(s)-1], true
}

// rawEncoding passes bytes through until a font sets its own encoding
type rawEncoding struct{}

func (rawEncoding) Decode(raw string) string { return raw }
