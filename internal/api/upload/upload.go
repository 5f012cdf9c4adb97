package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pkg/validator"
)

const filesField = "files"

// ParseFiles parses a multipart request, checks the upload limits and reads
// every part of the "files" field into memory
func ParseFiles(r *http.Request, maxUploadSize int64, v *validator.Validator) ([]entity.UploadedFile, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, fmt.Errorf("%w: parse multipart form: %v", entity.ErrInvalidParameter, err)
	}

	headers := r.MultipartForm.File[filesField]
	if err := v.ValidateUpload(headers); err != nil {
		return nil, err
	}

	return Read(headers)
}

// Read loads the content of each file header, keeping the upload order
func Read(headers []*multipart.FileHeader) ([]entity.UploadedFile, error) {
	files := make([]entity.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		content, err := readHeader(fh)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", entity.ErrInvalidFile, fh.Filename, err)
		}

		files = append(files, entity.UploadedFile{
			Filename:    validator.SanitizeFilename(fh.Filename),
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}
	return files, nil
}

func readHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
