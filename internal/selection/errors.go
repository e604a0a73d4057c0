// Package selection scores base resumes against a job description and picks which ones to tailor.
package selection

import (
	"errors"
	"fmt"
)

// ErrEmptyJobText is returned when selection is asked to score blank text
var ErrEmptyJobText = errors.New("job description text is empty")

// ConfigurationError reports a missing or unusable resume index
type ConfigurationError struct {
	Message string
	Path    string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
