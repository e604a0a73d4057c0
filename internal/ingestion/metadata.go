package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/jonathan/resume-agent/internal/fetch"
	"github.com/jonathan/resume-agent/internal/storage"
	"github.com/jonathan/resume-agent/internal/types"
)

// NewMetadata describes where job text came from. The hash is taken over
// the cleaned text so identical postings hash identically across sources.
func NewMetadata(content, source string) *types.JobSource {
	meta := &types.JobSource{
		Location: source,
		Kind:     sourceKind(source),
		LoadedAt: time.Now().UTC(),
		Hash:     computeHash(content),
		Chars:    len(content),
	}
	if meta.Kind == types.SourceURL {
		meta.Platform = string(fetch.DetectPlatform(source))
	}
	return meta
}

func sourceKind(source string) string {
	switch {
	case IsURL(source):
		return types.SourceURL
	case storage.IsS3URI(source):
		return types.SourceS3
	default:
		return types.SourceFile
	}
}

// IsURL reports whether source is an http(s) URL.
func IsURL(source string) bool {
	s := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
