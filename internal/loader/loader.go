package loader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/futig/docqa/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Loader extracts documents from one uploaded file
type Loader interface {
	Load(ctx context.Context, file entity.UploadedFile) ([]entity.Document, error)
}

// Factory picks the loader variant for a declared file type
type Factory struct {
	tempDir string
}

// NewFactory creates a factory. An empty tempDir means os.TempDir().
func NewFactory(tempDir string) *Factory {
	return &Factory{tempDir: tempDir}
}

func (f *Factory) Create(fileType entity.FileType) (Loader, error) {
	switch fileType {
	case entity.FileTypePDF:
		return NewPDFLoader(f.tempDir), nil
	case entity.FileTypeDOCX:
		return NewDOCXLoader(f.tempDir), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFT, fileType)
	}
}

// LoadBatch loads every file independently. A failing file is reported in
// failures and never stops the rest of the batch.
func (f *Factory) LoadBatch(ctx context.Context, files []entity.UploadedFile) ([]entity.Document, []*entity.LoadError) {
	docs := make([]entity.Document, 0, len(files))
	var failures []*entity.LoadError

	for _, file := range files {
		loaded, err := f.loadOne(ctx, file)
		if err != nil {
			var loadErr *entity.LoadError
			if !errors.As(err, &loadErr) {
				loadErr = &entity.LoadError{Filename: file.Filename, Err: err}
			}
			ctxzap.Warn(ctx, "file skipped",
				zap.String("filename", file.Filename),
				zap.Error(loadErr.Err),
			)
			failures = append(failures, loadErr)
			continue
		}

		ctxzap.Debug(ctx, "file loaded",
			zap.String("filename", file.Filename),
			zap.Int("document_count", len(loaded)),
		)
		docs = append(docs, loaded...)
	}

	return docs, failures
}

func (f *Factory) loadOne(ctx context.Context, file entity.UploadedFile) ([]entity.Document, error) {
	fileType, ok := entity.DetectFileType(file.Filename, file.ContentType)
	if !ok {
		return nil, &entity.LoadError{Filename: file.Filename, Err: entity.ErrUnsupportedFT}
	}

	l, err := f.Create(fileType)
	if err != nil {
		return nil, &entity.LoadError{Filename: file.Filename, Err: err}
	}

	return l.Load(ctx, file)
}

// withTempFile writes content to a scoped temp file. The file is removed when fn
// returns, whatever the outcome.
func withTempFile(dir, ext string, content []byte, fn func(path string) error) error {
	tmp, err := os.CreateTemp(dir, "docqa-*"+ext)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return fn(path)
}
