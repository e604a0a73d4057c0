package llm

import "strings"

// CleanJSONBlock reduces a model response to its first JSON object or
// array. Markdown fences, a leading byte-order mark and any chatter before
// or after the value are dropped. A response without a balanced value is
// returned trimmed so the decoder can report it.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(strings.TrimPrefix(text, "\ufeff"))
	text = stripFence(text)

	if v, ok := firstJSONValue(text); ok {
		return v
	}
	return text
}

// stripFence unwraps ```lang ... ``` when text starts with a fence
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	body := strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && isFenceLang(body[:nl]) {
		body = body[nl+1:]
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

func isFenceLang(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) < 20 && !strings.ContainsAny(line, " {[\"")
}

// firstJSONValue scans for the first balanced {...} or [...] outside of
// string literals.
func firstJSONValue(text string) (string, bool) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}

	var stack []byte
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return "", false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
