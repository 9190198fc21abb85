package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every user-visible pipeline failure.
type ErrorKind string

const (
	ErrEmptyInput            ErrorKind = "EMPTY_INPUT"
	ErrInvalidURL            ErrorKind = "INVALID_URL"
	ErrUnsupportedFileType   ErrorKind = "UNSUPPORTED_FILE_TYPE"
	ErrFetchFailed           ErrorKind = "FETCH_FAILED"
	ErrInsufficientContent   ErrorKind = "INSUFFICIENT_CONTENT"
	ErrNoUsableContent       ErrorKind = "NO_USABLE_CONTENT"
	ErrImageProcessingFailed ErrorKind = "IMAGE_PROCESSING_FAILED"
	ErrSummarizationFailed   ErrorKind = "SUMMARIZATION_FAILED"
)

// Error is the typed failure every pipeline path funnels through. Detail is
// phrased for the end user: it names the rejected extension, the HTTP status,
// or the underlying cause.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// AsError unwraps err into a *Error, or wraps an unlabeled error into the
// given fallback kind so callers never see a bare failure.
func AsError(err error, fallback ErrorKind) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{Kind: fallback, Detail: err.Error()}
}

// KindOf reports the kind of err when it is (or wraps) a *Error.
func KindOf(err error) (ErrorKind, bool) {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind, true
	}

	return "", false
}
