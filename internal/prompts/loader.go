// Package prompts holds the embedded prompt templates for each pipeline stage.
package prompts

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Tailoring is the prompt file holding one template per pipeline stage
const Tailoring = "tailoring.json"

// ErrNotFound is returned for an unknown prompt key
var ErrNotFound = errors.New("prompt not found")

var placeholderRe = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9]*)\}\}`)

// Template is one prompt with its {{.Name}} placeholders precomputed
type Template struct {
	Key    string
	Text   string
	Fields []string
}

// Fill substitutes every placeholder in one pass, so placeholder-like
// text inside values is kept verbatim. A placeholder without a value is
// an error.
func (t *Template) Fill(data map[string]string) (string, error) {
	var missing []string
	for _, name := range t.Fields {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %q is missing values for %s", t.Key, strings.Join(missing, ", "))
	}

	return placeholderRe.ReplaceAllStringFunc(t.Text, func(m string) string {
		return data[placeholderRe.FindStringSubmatch(m)[1]]
	}), nil
}

type promptFile struct {
	once      sync.Once
	templates map[string]*Template
	err       error
}

// files is keyed by file name; each file is parsed at most once
var files sync.Map

func load(filename string) (map[string]*Template, error) {
	v, _ := files.LoadOrStore(filename, &promptFile{})
	f := v.(*promptFile)
	f.once.Do(func() {
		f.templates, f.err = parseFile(filename)
	})
	return f.templates, f.err
}

func parseFile(filename string) (map[string]*Template, error) {
	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	out := make(map[string]*Template, len(raw))
	for key, text := range raw {
		out[key] = &Template{Key: key, Text: text, Fields: Placeholders(text)}
	}
	return out, nil
}

// Lookup returns the template stored under key in filename
func Lookup(filename, key string) (*Template, error) {
	templates, err := load(filename)
	if err != nil {
		return nil, err
	}
	t, ok := templates[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrNotFound, key, filename)
	}
	return t, nil
}

// Get returns the raw text of a prompt
func Get(filename, key string) (string, error) {
	t, err := Lookup(filename, key)
	if err != nil {
		return "", err
	}
	return t.Text, nil
}

// Render looks up a prompt and fills it
func Render(filename, key string, data map[string]string) (string, error) {
	t, err := Lookup(filename, key)
	if err != nil {
		return "", err
	}
	return t.Fill(data)
}

// Placeholders returns the distinct placeholder names in text, sorted
func Placeholders(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}

// List returns the prompt keys in filename, sorted
func List(filename string) ([]string, error) {
	templates, err := load(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(templates))
	for key := range templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
