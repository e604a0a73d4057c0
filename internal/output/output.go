// Package output persists finished run records to local files, S3 or any
// combination of sinks.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-agent/internal/schemas"
	"github.com/jonathan/resume-agent/internal/storage"
	"github.com/jonathan/resume-agent/internal/types"
)

// DefaultFileName is the record name used when only a directory is given
const DefaultFileName = "tailored_resume.json"

const contentTypeJSON = "application/json"

// Sink stores a run record and returns where it went
type Sink interface {
	Write(ctx context.Context, out *types.RunOutput) (string, error)
}

// Marshal encodes a run record as indented JSON and checks it against the
// run output schema.
func Marshal(out *types.RunOutput) ([]byte, error) {
	if out == nil {
		return nil, fmt.Errorf("no run output to write")
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run output: %w", err)
	}
	if err := schemas.Validate(schemas.RunOutput, string(data)); err != nil {
		return nil, fmt.Errorf("run output failed schema check: %w", err)
	}
	return data, nil
}

// Load reads a saved run record from a local path or s3:// URI
func Load(ctx context.Context, store *storage.Store, path string) (*types.RunOutput, error) {
	data, err := store.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run output %s: %w", path, err)
	}
	if err := schemas.Validate(schemas.RunOutput, string(data)); err != nil {
		return nil, fmt.Errorf("run output %s failed schema check: %w", path, err)
	}
	var out types.RunOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse run output %s: %w", path, err)
	}
	return &out, nil
}

// FileSink writes pretty JSON to a local path, creating parent directories
type FileSink struct {
	Path string
}

// Write implements Sink
func (f FileSink) Write(_ context.Context, out *types.RunOutput) (string, error) {
	data, err := Marshal(out)
	if err != nil {
		return "", err
	}
	path := f.Path
	if path == "" || strings.HasSuffix(path, string(os.PathSeparator)) {
		path = filepath.Join(path, DefaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// S3Sink puts the record as one application/json object
type S3Sink struct {
	store *storage.Store
	uri   string
}

// NewS3Sink creates a sink for an s3://bucket/key URI
func NewS3Sink(store *storage.Store, uri string) (*S3Sink, error) {
	if _, key, err := storage.ParseS3URI(uri); err != nil {
		return nil, err
	} else if strings.HasSuffix(key, "/") {
		uri += DefaultFileName
	}
	return &S3Sink{store: store, uri: uri}, nil
}

// Write implements Sink
func (s *S3Sink) Write(ctx context.Context, out *types.RunOutput) (string, error) {
	data, err := Marshal(out)
	if err != nil {
		return "", err
	}
	if err := s.store.WriteFile(ctx, s.uri, data, contentTypeJSON); err != nil {
		return "", err
	}
	return s.uri, nil
}

// ForLocation returns an S3Sink for s3:// URIs and a FileSink otherwise
func ForLocation(store *storage.Store, location string) (Sink, error) {
	if storage.IsS3URI(location) {
		return NewS3Sink(store, location)
	}
	return FileSink{Path: location}, nil
}

// Multi writes to every sink in order and stops at the first failure
type Multi []Sink

// Write implements Sink. The returned location lists every destination.
func (m Multi) Write(ctx context.Context, out *types.RunOutput) (string, error) {
	locations := make([]string, 0, len(m))
	for _, sink := range m {
		loc, err := sink.Write(ctx, out)
		if err != nil {
			return strings.Join(locations, ", "), err
		}
		locations = append(locations, loc)
	}
	return strings.Join(locations, ", "), nil
}
