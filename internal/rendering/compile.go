package rendering

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	// CompilationTimeout is the maximum time to wait for LaTeX compilation
	CompilationTimeout = 30 * time.Second
)

// CompileLaTeX runs pdflatex on texPath inside workDir and returns the
// generated PDF path. A PDF produced despite errors is returned together
// with a *CompilationError.
func CompileLaTeX(ctx context.Context, texPath string, workDir string) (pdfPath string, logOutput string, err error) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		return "", "", &CompilationError{
			Message: "pdflatex not found in PATH. Please install a LaTeX distribution (e.g., TeX Live, MiKTeX)",
			Cause:   err,
		}
	}

	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", "", &CompilationError{Message: fmt.Sprintf("failed to create working directory: %s", workDir), Cause: err}
	}

	texBaseName := filepath.Base(texPath)
	workTexPath := filepath.Join(workDir, texBaseName)
	if texPath != workTexPath {
		content, err := os.ReadFile(texPath)
		if err != nil {
			return "", "", &CompilationError{Message: fmt.Sprintf("failed to read LaTeX file: %s", texPath), Cause: err}
		}
		if err := os.WriteFile(workTexPath, content, 0o644); err != nil {
			return "", "", &CompilationError{Message: fmt.Sprintf("failed to write LaTeX file to working directory: %s", workDir), Cause: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, CompilationTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "pdflatex", "-interaction=nonstopmode", "-halt-on-error", "-output-directory", workDir, workTexPath)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()
	logOutput = stdout.String() + stderr.String()

	pdfPath = filepath.Join(workDir, strings.TrimSuffix(texBaseName, ".tex")+".pdf")
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		return "", logOutput, &CompilationError{
			Message:   "PDF was not generated",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}
	if runErr != nil {
		return pdfPath, logOutput, &CompilationError{
			Message:   "compilation completed with errors (PDF may be incomplete)",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}
	return pdfPath, logOutput, nil
}

// CompilePDF compiles LaTeX source in a scratch directory and returns the
// PDF bytes.
func CompilePDF(ctx context.Context, tex string) ([]byte, error) {
	workDir, err := os.MkdirTemp("", "latex-compile-*")
	if err != nil {
		return nil, &CompilationError{Message: "failed to create temporary working directory", Cause: err}
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	texPath := filepath.Join(workDir, "resume.tex")
	if err := os.WriteFile(texPath, []byte(tex), 0o644); err != nil {
		return nil, &CompilationError{Message: "failed to write LaTeX source", Cause: err}
	}

	pdfPath, _, err := CompileLaTeX(ctx, texPath, workDir)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(pdfPath)
}
