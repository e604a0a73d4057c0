package ingestion

import (
	"context"
	"errors"

	"github.com/jonathan/resume-agent/internal/types"
	"go.uber.org/zap"
)

// WebFetcher returns the posting text behind a URL.
type WebFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// DocumentExtractor returns the text of a stored document.
type DocumentExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// JobLoader resolves a job description source to cleaned text.
type JobLoader struct {
	web  WebFetcher
	docs DocumentExtractor
	log  *zap.Logger
}

// NewJobLoader returns a loader. web may be nil to disable URL sources.
func NewJobLoader(web WebFetcher, docs DocumentExtractor, log *zap.Logger) *JobLoader {
	if docs == nil {
		docs = NewExtractor(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &JobLoader{web: web, docs: docs, log: log}
}

// LoadJobText reads a job description from an http(s) URL, an s3:// object
// or a local file and returns the cleaned text with its provenance.
func (l *JobLoader) LoadJobText(ctx context.Context, source string) (string, *types.JobSource, error) {
	var raw string
	var err error

	if IsURL(source) {
		if l.web == nil {
			return "", nil, &InputError{Message: "URL given but web fetching is disabled", Source: source}
		}
		l.log.Info("fetching job description", zap.String("url", source))
		raw, err = l.web.Fetch(ctx, source)
		if err != nil {
			return "", nil, &InputError{Message: "could not fetch job description", Source: source, Cause: err}
		}
	} else {
		l.log.Info("reading job description", zap.String("path", source))
		raw, err = l.docs.Extract(ctx, source)
		if err != nil {
			msg := "could not read job description"
			if errors.Is(err, ErrNotFound) {
				msg = "job description file not found"
			}
			return "", nil, &InputError{Message: msg, Source: source, Cause: err}
		}
	}

	text := CleanText(raw)
	if text == "" {
		return "", nil, &InputError{Message: "job description is empty", Source: source, Cause: ErrEmptyDocument}
	}

	meta := NewMetadata(text, source)
	l.log.Info("loaded job description",
		zap.String("kind", meta.Kind),
		zap.Int("chars", meta.Chars),
		zap.String("hash", meta.Hash[:12]))
	return text, meta, nil
}
