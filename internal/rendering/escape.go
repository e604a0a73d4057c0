package rendering

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-agent/internal/types"
)

// ReviewMarker flags text a person still has to check.
const ReviewMarker = "[NEEDS REVIEW]"

var markdownBold = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// latexEscaper replaces in a single pass, so replacements are never
// re-escaped.
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`_`, `\_`,
	`^`, `\textasciicircum{}`,
	`~`, `\textasciitilde{}`,
	`<`, `\textless{}`,
	`>`, `\textgreater{}`,
)

// markers are always rendered bold, with or without markdown around them
var markers = []string{types.GapMarker, ReviewMarker}

// EscapeLaTeX escapes characters LaTeX treats as markup
func EscapeLaTeX(text string) string {
	return latexEscaper.Replace(text)
}

// FormatText escapes model-authored text for the template. Markdown
// **bold** spans become \textbf and the gap and review markers are
// always bold.
func FormatText(text string) string {
	for _, m := range markers {
		text = strings.ReplaceAll(text, "**"+m+"**", m)
	}
	out := markdownBold.ReplaceAllString(EscapeLaTeX(text), `\textbf{$1}`)
	for _, m := range markers {
		out = strings.ReplaceAll(out, EscapeLaTeX(m), `\textbf{`+EscapeLaTeX(m)+`}`)
	}
	return out
}
