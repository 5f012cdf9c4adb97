package entity

import (
	"path/filepath"
	"strings"
	"time"
)

type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
)

const (
	pdfContentType  = "application/pdf"
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DetectFileType resolves the declared type of an upload from its content type,
// falling back to the file extension. Returns false for anything but PDF/DOCX.
func DetectFileType(filename, contentType string) (FileType, bool) {
	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case pdfContentType:
		return FileTypePDF, true
	case docxContentType:
		return FileTypeDOCX, true
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FileTypePDF, true
	case ".docx":
		return FileTypeDOCX, true
	}

	return "", false
}

// UploadedFile is a file received from any presentation layer
type UploadedFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Document is the raw text extracted from one uploaded file (or one PDF page)
type Document struct {
	Text       string `json:"text"`
	SourceName string `json:"source_name"`
}

// Fragment is a contiguous slice of a Document. Offset is counted in characters.
type Fragment struct {
	Content    string `json:"content"`
	SourceName string `json:"source_name"`
	Offset     int    `json:"offset"`
}

type ScoredFragment struct {
	Fragment
	Score int `json:"score"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message of a chat session
type ConversationTurn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Reasoning *string   `json:"reasoning,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ModelResponse is a raw completion split into answer and optional reasoning
type ModelResponse struct {
	Answer    string
	Reasoning *string
}

// AnswerResult is what every interaction handler hands to the presentation layer
type AnswerResult struct {
	Answer    string     `json:"answer"`
	Reasoning *string    `json:"reasoning,omitempty"`
	Model     string     `json:"model"`
	Sources   []Fragment `json:"sources,omitempty"`
	Skipped   []string   `json:"skipped_files,omitempty"`
}

// Session is the chat-mode context passed into and returned from every chat interaction
type Session struct {
	ID        string             `json:"session_id"`
	Model     string             `json:"model"`
	Turns     []ConversationTurn `json:"turns"`
	Documents []Document         `json:"-"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Clone returns a copy whose slices can be appended to without touching s
func (s Session) Clone() Session {
	c := s
	c.Turns = append([]ConversationTurn(nil), s.Turns...)
	c.Documents = append([]Document(nil), s.Documents...)
	return c
}

// ModelInfo is one entry of the model catalog. ContextWindow is informational only.
type ModelInfo struct {
	ID            string `json:"id" yaml:"id"`
	ContextWindow int    `json:"context_window" yaml:"context_window"`
}

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}
