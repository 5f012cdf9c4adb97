package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Input errors
	ErrEmptyInput    = errors.New("empty input")
	ErrUnknownModel  = errors.New("unknown model")
	ErrUnsupportedFT = errors.New("unsupported file type")

	// File errors
	ErrInvalidFile       = errors.New("invalid file")
	ErrFileTooLarge      = errors.New("file too large")
	ErrTooManyFiles      = errors.New("too many files")
	ErrInvalidExtension  = errors.New("invalid file extension")
	ErrTotalSizeTooLarge = errors.New("total file size too large")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// LoadError reports a file that could not be parsed. It never aborts a batch.
type LoadError struct {
	Filename string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Filename, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ModelInvocationError wraps any failure of the model round trip
type ModelInvocationError struct {
	Model string
	Err   error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}

// NoTextError is returned when every uploaded file failed or yielded no text
type NoTextError struct {
	Failures []*LoadError
}

func (e *NoTextError) Error() string {
	if len(e.Failures) == 0 {
		return "no text extracted from uploaded files"
	}
	return fmt.Sprintf("no text extracted from uploaded files (%d failed)", len(e.Failures))
}

// Is makes a NoTextError match ErrEmptyInput
func (e *NoTextError) Is(target error) bool {
	return target == ErrEmptyInput
}
