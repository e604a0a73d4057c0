// Package schemas validates oracle responses and saved run records against
// the embedded JSON Schemas.
package schemas

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	schemafiles "github.com/jonathan/resume-agent/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// Schema names, one per embedded *.schema.json file
const (
	JobDescription = "job_description"
	Resume         = "resume"
	Header         = "header"
	Skills         = "skills"
	Role           = "role"
	Review         = "review"
	Score          = "score"
	GapCoverage    = "gap_coverage"
	CandidateIndex = "candidate_index"
	RunOutput      = "run_output"
)

const fileSuffix = ".schema.json"

// FieldError is one violation. Rule is the gojsonschema error type, for
// example "required" or "enum".
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// ValidationError lists every violation of a document against a schema
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "validation against %s failed:\n", ve.Schema)
	for i, fe := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// Fields returns the distinct failing field paths in order
func (ve *ValidationError) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, fe := range ve.Errors {
		if !seen[fe.Field] {
			seen[fe.Field] = true
			out = append(out, fe.Field)
		}
	}
	return out
}

// SchemaLoadError is a schema that is missing or does not compile, or a
// document that is not JSON at all.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error { return e.Cause }

type compiledSchema struct {
	once   sync.Once
	schema *gojsonschema.Schema
	err    error
}

// registry holds one lazily compiled entry per schema name
var registry sync.Map

// Source returns the raw text of an embedded schema
func Source(name string) (string, error) {
	data, err := schemafiles.Files.ReadFile(name + fileSuffix)
	if err != nil {
		return "", &SchemaLoadError{Path: name, Message: "schema not embedded", Cause: err}
	}
	return string(data), nil
}

// Names returns the embedded schema names, sorted
func Names() []string {
	entries, err := schemafiles.Files.ReadDir(".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), fileSuffix); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func load(name string) (*gojsonschema.Schema, error) {
	v, _ := registry.LoadOrStore(name, &compiledSchema{})
	c := v.(*compiledSchema)
	c.once.Do(func() {
		src, err := Source(name)
		if err != nil {
			c.err = err
			return
		}
		c.schema, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			c.err = &SchemaLoadError{Path: name, Message: "invalid schema", Cause: err}
		}
	})
	return c.schema, c.err
}

// Validate checks a JSON document against the named embedded schema.
// Violations are returned as a *ValidationError.
func Validate(name, jsonContent string) error {
	schema, err := load(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &SchemaLoadError{Path: name, Message: "document could not be loaded", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Schema: name, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Rule: desc.Type(), Message: desc.Description()})
	}
	return ve
}
