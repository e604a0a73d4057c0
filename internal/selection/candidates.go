package selection

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-agent/internal/schemas"
	"github.com/jonathan/resume-agent/internal/types"
	"go.uber.org/zap"
)

// ExistsFunc reports whether a candidate's backing document exists
type ExistsFunc func(ctx context.Context, path string) (bool, error)

// LocalExists checks a path on the local filesystem
func LocalExists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// LoadCandidatesFile reads a resume index from disk. Relative candidate
// paths are resolved against the index file's directory.
func LoadCandidatesFile(ctx context.Context, indexPath string, exists ExistsFunc, log *zap.Logger) ([]types.ResumeCandidate, error) {
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, &ConfigurationError{Message: "resume index not readable", Path: indexPath, Cause: err}
	}
	return LoadCandidates(ctx, data, filepath.Dir(indexPath), exists, log)
}

// LoadCandidates parses a resume index and keeps the entries whose backing
// document exists. Missing documents are skipped with a warning; an index
// that yields no candidates is a ConfigurationError.
func LoadCandidates(ctx context.Context, data []byte, baseDir string, exists ExistsFunc, log *zap.Logger) ([]types.ResumeCandidate, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if exists == nil {
		exists = LocalExists
	}

	if err := schemas.Validate(schemas.CandidateIndex, string(data)); err != nil {
		return nil, &ConfigurationError{Message: "resume index is invalid", Cause: err}
	}

	var entries []types.ResumeCandidate
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &ConfigurationError{Message: "resume index is not valid JSON", Cause: err}
	}

	candidates := make([]types.ResumeCandidate, 0, len(entries))
	for _, c := range entries {
		c.Path = resolvePath(baseDir, c.Path)

		ok, err := exists(ctx, c.Path)
		if err != nil {
			log.Warn("could not check resume document, skipping candidate",
				zap.String("candidate", c.ID), zap.String("path", c.Path), zap.Error(err))
			continue
		}
		if !ok {
			log.Warn("resume document not found, skipping candidate",
				zap.String("candidate", c.ID), zap.String("path", c.Path))
			continue
		}
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return nil, &ConfigurationError{Message: "no resume candidates available"}
	}

	log.Info("loaded resume candidates", zap.Int("count", len(candidates)))
	return candidates, nil
}

func resolvePath(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) || strings.Contains(path, "://") {
		return path
	}
	return filepath.Join(baseDir, path)
}
