package ingestion

import (
	"testing"

	"github.com/jonathan/resume-agent/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestComputeHash(t *testing.T) {
	h1 := computeHash("test content")
	h2 := computeHash("different content")

	assert.Len(t, h1, 64)
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, h1, computeHash("test content"))
}

func TestNewMetadata(t *testing.T) {
	tests := []struct {
		source       string
		wantKind     string
		wantPlatform string
	}{
		{source: "https://boards.greenhouse.io/acme/jobs/1", wantKind: types.SourceURL, wantPlatform: "greenhouse"},
		{source: "HTTP://example.com/job", wantKind: types.SourceURL, wantPlatform: "unknown"},
		{source: "s3://postings/acme.txt", wantKind: types.SourceS3},
		{source: "jobs/acme.txt", wantKind: types.SourceFile},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			meta := NewMetadata("posting text", tt.source)
			assert.Equal(t, tt.source, meta.Location)
			assert.Equal(t, tt.wantKind, meta.Kind)
			assert.Equal(t, tt.wantPlatform, meta.Platform)
			assert.Equal(t, computeHash("posting text"), meta.Hash)
			assert.Equal(t, len("posting text"), meta.Chars)
			assert.False(t, meta.LoadedAt.IsZero())
		})
	}
}
