package rendering

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWriter struct {
	files        map[string][]byte
	contentTypes map[string]string
	err          error
}

func (m *memWriter) WriteFile(_ context.Context, path string, data []byte, contentType string) error {
	if m.err != nil {
		return m.err
	}
	m.files[path] = data
	m.contentTypes[path] = contentType
	return nil
}

func newMemWriter() *memWriter {
	return &memWriter{files: map[string][]byte{}, contentTypes: map[string]string{}}
}

func TestRenderer_Render(t *testing.T) {
	out := newMemWriter()
	r := NewRenderer(out, "", false, nil)
	r.compile = func(_ context.Context, tex string) ([]byte, error) {
		return []byte("%PDF-1.5 " + tex[:10]), nil
	}

	loc, err := r.Render(context.Background(), sampleResume(), "out/resume.tex")
	require.NoError(t, err)
	assert.Equal(t, "out/resume.tex", loc)
	assert.Contains(t, string(out.files["out/resume.tex"]), `\begin{document}`)
	assert.Equal(t, "application/x-tex", out.contentTypes["out/resume.tex"])

	_, err = r.Render(context.Background(), sampleResume(), "s3://bucket/resume.PDF")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.5 \\documentc", string(out.files["s3://bucket/resume.PDF"]))
	assert.Equal(t, "application/pdf", out.contentTypes["s3://bucket/resume.PDF"])
}

func TestRenderer_RenderErrors(t *testing.T) {
	tests := []struct {
		name    string
		dest    string
		compile error
		write   error
		wantMsg string
	}{
		{name: "unsupported", dest: "resume.docx", wantMsg: "unsupported output format"},
		{name: "compile failure", dest: "resume.pdf", compile: &CompilationError{Message: "PDF was not generated"}, wantMsg: "failed to compile PDF"},
		{name: "write failure", dest: "resume.tex", write: errors.New("disk full"), wantMsg: "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := newMemWriter()
			out.err = tt.write
			r := NewRenderer(out, "", false, nil)
			r.compile = func(context.Context, string) ([]byte, error) { return nil, tt.compile }

			_, err := r.Render(context.Background(), sampleResume(), tt.dest)
			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
