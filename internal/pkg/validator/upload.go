package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/futig/docqa/internal/config"
	"github.com/futig/docqa/internal/entity"
)

// Validator enforces upload limits. File types are not checked here: an
// unsupported file is skipped by the loader instead of failing the request.
type Validator struct {
	cfg config.FileUploadConfig
}

func NewFileValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateUpload validates multipart file headers before they are read
func (v *Validator) ValidateUpload(files []*multipart.FileHeader) error {
	sized := make([]sizedFile, 0, len(files))
	for _, fh := range files {
		sized = append(sized, sizedFile{name: fh.Filename, size: fh.Size})
	}
	return v.validateLimits(sized)
}

// ValidateFiles validates files already read into memory (Telegram, terminal chat)
func (v *Validator) ValidateFiles(files []entity.UploadedFile) error {
	sized := make([]sizedFile, 0, len(files))
	for _, f := range files {
		sized = append(sized, sizedFile{name: f.Filename, size: int64(len(f.Content))})
	}
	return v.validateLimits(sized)
}

type sizedFile struct {
	name string
	size int64
}

func (v *Validator) validateLimits(files []sizedFile) error {
	if len(files) > v.cfg.MaxFileCount {
		return fmt.Errorf("%w: maximum %d files allowed, got %d", entity.ErrTooManyFiles, v.cfg.MaxFileCount, len(files))
	}

	var totalSize int64
	for _, f := range files {
		if f.size > v.cfg.MaxFileSize {
			return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, f.name, f.size, v.cfg.MaxFileSize)
		}
		totalSize += f.size
	}

	if totalSize > v.cfg.MaxTotalSize {
		return fmt.Errorf("%w: total size is %d bytes (max %d)", entity.ErrTotalSizeTooLarge, totalSize, v.cfg.MaxTotalSize)
	}

	return nil
}

// ValidateFormat checks a transcript export format
func ValidateFormat(format string) (entity.ResultFormat, error) {
	if format == "" {
		return entity.FormatMarkdown, nil
	}

	f := entity.ResultFormat(strings.ToLower(format))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: format must be markdown, docx or pdf, got %q", entity.ErrInvalidFormat, format)
	}
	return f, nil
}

// SanitizeFilename makes a name safe for a Content-Disposition header or a temp file
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"\"", "",
		"/", "",
		"\\", "",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
