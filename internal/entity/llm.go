package entity

// OllamaGenerateRequest is the body of POST /api/generate
type OllamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type OllamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

type OllamaModel struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Size  int64  `json:"size"`
}

// OllamaTagsResponse is the body of GET /api/tags
type OllamaTagsResponse struct {
	Models []OllamaModel `json:"models"`
}
