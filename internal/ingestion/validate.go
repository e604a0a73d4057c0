package ingestion

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultMinJobLength is the minimum trimmed length of a usable job description.
const DefaultMinJobLength = 100

// DefaultMinResumeLength is the minimum trimmed length of usable resume text.
const DefaultMinResumeLength = 50

// minWordDiversity is the unique-word ratio below which scraped text is suspect.
const minWordDiversity = 0.1

// ValidateJobText rejects empty or short job descriptions. Highly repetitive
// text only logs a warning since it usually means a scrape went wrong.
func ValidateJobText(text string, minLength int, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if minLength <= 0 {
		minLength = DefaultMinJobLength
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return &InputError{Message: "job description cannot be empty", Cause: ErrEmptyDocument}
	}
	if n := len([]rune(text)); n < minLength {
		return &InputError{
			Message: fmt.Sprintf("job description too short (%d chars); minimum %d characters required", n, minLength),
		}
	}

	if ratio := WordDiversity(text); ratio < minWordDiversity {
		log.Warn("job description has low word diversity, this might indicate a scraping issue",
			zap.Float64("unique_ratio", ratio))
	}
	return nil
}

// ValidateResumeText rejects resume text too short to extract roles from.
// A scanned PDF with no text layer usually lands here.
func ValidateResumeText(text, source string, minLength int) error {
	if minLength <= 0 {
		minLength = DefaultMinResumeLength
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return &InputError{Message: "resume text is empty", Source: source, Cause: ErrEmptyDocument}
	}
	if n := len([]rune(text)); n < minLength {
		return &InputError{
			Message: fmt.Sprintf("resume text too short (%d chars); minimum %d characters required", n, minLength),
			Source:  source,
		}
	}
	return nil
}

// WordDiversity returns distinct whitespace-separated words over total words.
func WordDiversity(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return float64(len(seen)) / float64(len(words))
}
