package ingestion

import (
	"regexp"
	"strings"
)

var (
	spaceRun     = regexp.MustCompile(`[ \t]+`)
	blankLineRun = regexp.MustCompile(`\n{3,}`)
	numberedItem = regexp.MustCompile(`^(\d{1,2})[.)]\s*([^\d\s].*)$`)

	// typography drops invisible characters and straightens quotes so
	// keyword matching sees the same text the model does
	typography = strings.NewReplacer(
		"\r\n", "\n", "\r", "\n",
		"\u00a0", " ", "\u2009", " ", "\u202f", " ",
		"\u200b", "", "\u200c", "", "\u200d", "", "\ufeff", "",
		"\u2018", "'", "\u2019", "'", "\u201c", `"`, "\u201d", `"`,
	)
)

// unicodeBullets are rewritten to "-"
var unicodeBullets = []string{"\u2022", "\u00b7", "\u25aa", "\u25e6", "\u2023"}

// CleanText normalizes whitespace and typography in a job description or
// resume. Headings, list structure, indentation and paragraph breaks
// survive; runs of blank lines collapse to one. The result is stable
// under repeated cleaning.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	lines := strings.Split(typography.Replace(content), "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}
	joined := blankLineRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(joined)
}

func cleanLine(line string) string {
	body := strings.TrimLeft(line, " \t")
	if strings.TrimSpace(body) == "" {
		return ""
	}
	indent := strings.Repeat(" ", len(line)-len(body))
	body = spaceRun.ReplaceAllString(strings.TrimSpace(body), " ")

	switch {
	case strings.HasPrefix(body, "#"):
		return body
	case isBullet(body):
		marker, rest := splitBullet(body)
		return indent + marker + " " + strings.TrimSpace(rest)
	default:
		if m := numberedItem.FindStringSubmatch(body); m != nil {
			return indent + m[1] + ". " + m[2]
		}
		return indent + body
	}
}

func isBullet(s string) bool {
	_, rest := splitBullet(s)
	return rest != s
}

// splitBullet separates a list marker from its text. ASCII markers are
// kept and need a following space; unicode markers become "-".
func splitBullet(s string) (marker, rest string) {
	for _, m := range []string{"- ", "* "} {
		if strings.HasPrefix(s, m) {
			return m[:1], s[len(m):]
		}
	}
	for _, m := range unicodeBullets {
		if strings.HasPrefix(s, m) {
			return "-", s[len(m):]
		}
	}
	return "", s
}
