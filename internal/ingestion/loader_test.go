package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-agent/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	text string
	err  error
	urls []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	s.urls = append(s.urls, url)
	return s.text, s.err
}

func TestJobLoader_URL(t *testing.T) {
	web := &stubFetcher{text: "Growth   Lead\r\n\n\n\nOwn paid acquisition"}
	loader := NewJobLoader(web, nil, nil)

	text, meta, err := loader.LoadJobText(context.Background(), "https://jobs.lever.co/acme/1")
	require.NoError(t, err)
	assert.Equal(t, "Growth Lead\n\nOwn paid acquisition", text)
	assert.Equal(t, []string{"https://jobs.lever.co/acme/1"}, web.urls)
	assert.Equal(t, types.SourceURL, meta.Kind)
	assert.Equal(t, "lever", meta.Platform)
}

func TestJobLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Growth Lead  \n"), 0o644))

	text, meta, err := NewJobLoader(nil, nil, nil).LoadJobText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Growth Lead", text)
	assert.Equal(t, types.SourceFile, meta.Kind)
	assert.Empty(t, meta.Platform)
}

func TestJobLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	blank := filepath.Join(dir, "blank.txt")
	require.NoError(t, os.WriteFile(blank, []byte("\u200b"), 0o644))

	tests := []struct {
		name    string
		loader  *JobLoader
		source  string
		wantMsg string
		wantIs  error
	}{
		{
			name:    "web disabled",
			loader:  NewJobLoader(nil, nil, nil),
			source:  "https://example.com/job",
			wantMsg: "web fetching is disabled",
		},
		{
			name:    "fetch failure",
			loader:  NewJobLoader(&stubFetcher{err: errors.New("boom")}, nil, nil),
			source:  "https://example.com/job",
			wantMsg: "could not fetch job description",
		},
		{
			name:    "missing file",
			loader:  NewJobLoader(nil, nil, nil),
			source:  filepath.Join(dir, "missing.txt"),
			wantMsg: "file not found",
			wantIs:  ErrNotFound,
		},
		{
			name:    "blank after cleaning",
			loader:  NewJobLoader(nil, nil, nil),
			source:  blank,
			wantMsg: "job description is empty",
			wantIs:  ErrEmptyDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.loader.LoadJobText(context.Background(), tt.source)
			require.Error(t, err)

			var inputErr *InputError
			require.ErrorAs(t, err, &inputErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}
