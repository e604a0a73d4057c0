// Package ingestion loads job descriptions and resume documents as plain
// text and checks that the text is usable before the pipeline spends model
// calls on it.
package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a source document does not exist
	ErrNotFound = errors.New("document not found")
	// ErrEmptyDocument is returned when a document yields no text
	ErrEmptyDocument = errors.New("document contains no text")
	// ErrUnsupportedFormat is returned for file types with no extractor
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// InputError reports an unusable job description or resume source.
type InputError struct {
	Message string
	Source  string
	Cause   error
}

func (e *InputError) Error() string {
	msg := e.Message
	if e.Source != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Source)
	}
	if e.Cause != nil {
		return fmt.Sprintf("input error: %s: %v", msg, e.Cause)
	}
	return "input error: " + msg
}

func (e *InputError) Unwrap() error {
	return e.Cause
}
