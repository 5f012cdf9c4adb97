package entity

import (
	"mime/multipart"
	"time"
)

// AskRequest is a single Document Q&A interaction
type AskRequest struct {
	Files    []UploadedFile
	Question string
	Model    string
}

// AskHTTPRequest is the multipart form of POST /ask before the files are read
type AskHTTPRequest struct {
	Files    []*multipart.FileHeader
	Question string
	Model    string
}

type CreateSessionRequest struct {
	Model string `json:"model"`
}

type SetModelRequest struct {
	Model string `json:"model"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

// AnswerResponse is the wire shape of every answer: answer, reasoning|absent, error|absent
type AnswerResponse struct {
	Answer    string        `json:"answer,omitempty"`
	Reasoning *string       `json:"reasoning,omitempty"`
	Error     *string       `json:"error,omitempty"`
	Model     string        `json:"model,omitempty"`
	Sources   []FragmentDTO `json:"sources,omitempty"`
	Skipped   []string      `json:"skipped_files,omitempty"`
}

type FragmentDTO struct {
	SourceName string `json:"source_name"`
	Offset     int    `json:"offset"`
	Preview    string `json:"preview"`
}

type SessionDTO struct {
	ID            string             `json:"session_id"`
	Model         string             `json:"model"`
	DocumentCount int                `json:"document_count"`
	Sources       []string           `json:"sources,omitempty"`
	Turns         []ConversationTurn `json:"turns"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type AttachFilesResponse struct {
	SessionID     string   `json:"session_id"`
	DocumentCount int      `json:"document_count"`
	Skipped       []string `json:"skipped_files,omitempty"`
}

type ListModelsResponse struct {
	Default string      `json:"default"`
	Models  []ModelInfo `json:"models"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
