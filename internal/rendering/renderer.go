package rendering

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-agent/internal/types"
	"go.uber.org/zap"
)

// Writer stores rendered bytes at a local path or object URI.
type Writer interface {
	WriteFile(ctx context.Context, path string, data []byte, contentType string) error
}

// Renderer writes a tailored resume as .tex or .pdf, or as a Google Doc
// when WithDocs is set.
type Renderer struct {
	out          Writer
	templatePath string
	includeNotes bool
	log          *zap.Logger
	compile      func(ctx context.Context, tex string) ([]byte, error)
	docs         DocsAPI
}

// NewRenderer returns a Renderer writing through out. An empty
// templatePath selects the built-in template.
func NewRenderer(out Writer, templatePath string, includeNotes bool, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		out:          out,
		templatePath: templatePath,
		includeNotes: includeNotes,
		log:          log,
		compile:      CompilePDF,
	}
}

// Render writes tr to dest, choosing the format from its extension, and
// returns dest.
func (r *Renderer) Render(ctx context.Context, tr *types.TailoredResume, dest string) (string, error) {
	tex, err := RenderLaTeX(tr, r.templatePath, r.includeNotes)
	if err != nil {
		return "", err
	}

	var data []byte
	var contentType string
	switch ext := strings.ToLower(filepath.Ext(dest)); ext {
	case ".tex":
		data, contentType = []byte(tex), "application/x-tex"
	case ".pdf":
		data, err = r.compile(ctx, tex)
		if err != nil {
			return "", &RenderError{Message: "failed to compile PDF", Cause: err}
		}
		contentType = "application/pdf"
	default:
		return "", &RenderError{Message: fmt.Sprintf("unsupported output format %q (want .tex or .pdf)", ext)}
	}

	if err := r.out.WriteFile(ctx, dest, data, contentType); err != nil {
		return "", &RenderError{Message: "failed to write " + dest, Cause: err}
	}
	r.log.Info("rendered resume", zap.String("path", dest), zap.Int("bytes", len(data)))
	return dest, nil
}
