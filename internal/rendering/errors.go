// Package rendering turns a tailored resume into LaTeX and, through
// pdflatex, a PDF.
package rendering

import (
	"fmt"
	"strings"
)

func describe(kind, msg string, cause error) string {
	if cause != nil {
		return fmt.Sprintf("%s: %s: %v", kind, msg, cause)
	}
	return fmt.Sprintf("%s: %s", kind, msg)
}

// TemplateError is a LaTeX template that could not be read, parsed or executed
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string { return describe("template error", e.Message, e.Cause) }

func (e *TemplateError) Unwrap() error { return e.Cause }

// RenderError is a failure to produce or write an output file
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string { return describe("render error", e.Message, e.Cause) }

func (e *RenderError) Unwrap() error { return e.Cause }

// CompilationError is a pdflatex failure. LogOutput holds its combined
// stdout and stderr.
type CompilationError struct {
	Message   string
	LogOutput string
	Cause     error
}

func (e *CompilationError) Error() string {
	msg := e.Message
	if first := e.FirstLaTeXError(); first != "" {
		msg += " (" + first + ")"
	}
	return describe("LaTeX compilation error", msg, e.Cause)
}

func (e *CompilationError) Unwrap() error { return e.Cause }

// FirstLaTeXError returns the first "! ..." line of the pdflatex log
// joined with the "l.<n>" line that locates it, or "".
func (e *CompilationError) FirstLaTeXError() string {
	lines := strings.Split(e.LogOutput, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "! ") {
			continue
		}
		msg := strings.TrimSpace(strings.TrimPrefix(line, "! "))
		for _, next := range lines[i+1:] {
			if strings.HasPrefix(next, "l.") {
				if loc, _, ok := strings.Cut(next, " "); ok {
					return msg + " at " + loc
				}
				return msg + " at " + strings.TrimSpace(next)
			}
		}
		return msg
	}
	return ""
}
