package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/futig/docqa/internal/config"
	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pkg/validator"
)

func multipartRequest(t *testing.T, files map[string]string, order []string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, name := range order {
		part, err := mw.CreateFormFile(filesField, name)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write([]byte(files[name]))
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/ask", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func testValidator(maxFileSize int64) *validator.Validator {
	return validator.NewFileValidator(config.FileUploadConfig{
		MaxFileSize:  maxFileSize,
		MaxTotalSize: 1 << 20,
		MaxFileCount: 4,
	})
}

func TestParseFiles(t *testing.T) {
	req := multipartRequest(t,
		map[string]string{"b.pdf": "second", "a file.docx": "first"},
		[]string{"a file.docx", "b.pdf"},
	)

	files, err := ParseFiles(req, 1<<20, testValidator(1024))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].Filename != "a_file.docx" || string(files[0].Content) != "first" {
		t.Errorf("unexpected first file: %+v", files[0])
	}
	if files[1].Filename != "b.pdf" || string(files[1].Content) != "second" {
		t.Errorf("unexpected second file: %+v", files[1])
	}
}

func TestParseFiles_TooLarge(t *testing.T) {
	req := multipartRequest(t, map[string]string{"big.pdf": "0123456789"}, []string{"big.pdf"})

	_, err := ParseFiles(req, 1<<20, testValidator(4))
	if !errors.Is(err, entity.ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestParseFiles_NotMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")

	_, err := ParseFiles(req, 1<<20, testValidator(4))
	if !errors.Is(err, entity.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}
