package common

import (
	"errors"
	"fmt"
)

// AppError is the coded error shape the HTTP boundary reports.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Pipeline errors. Everything below the orchestrator boundary is recovered
// into one of these; none of them escapes an Extract call.
var (
	// ErrDocumentParse: the input bytes are not a readable PDF.
	ErrDocumentParse = errors.New("document parse error")
	// ErrOCRUnavailable: the OCR engine binary is absent. A capability flag,
	// not a per-call failure.
	ErrOCRUnavailable = errors.New("ocr engine unavailable")
	// ErrOCRRuntime: the engine exists but failed on this document or page.
	ErrOCRRuntime = errors.New("ocr engine runtime error")
)
