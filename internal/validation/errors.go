// Package validation checks a tailored resume against the resume it was
// derived from.
package validation

import (
	"fmt"
	"strings"
)

// ValidationError reports a tailored value that the original resume does
// not allow. It is fatal for the run.
//
//nolint:revive // ValidationError reads better than Error at call sites
type ValidationError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s %q is not in the original resume (allowed: %s)",
		e.Field, e.Value, strings.Join(e.Allowed, ", "))
}
