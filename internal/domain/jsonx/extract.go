// Package jsonx pulls JSON objects out of free-form model output.
//
// Generative models wrap their JSON in prose, markdown fences or trailing
// commentary. ExtractFirstObject returns the first balanced top-level
// object; braces that appear inside string literals are ignored.
package jsonx

// ExtractFirstObject returns the first balanced {...} span in text.
//
// The scan starts at the first '{' and tracks nesting depth, skipping
// braces inside double-quoted strings (with backslash escapes). Anything
// after the closing brace is discarded. The span is not validated as
// JSON; callers decode it themselves.
func ExtractFirstObject(text string) (string, error) {
	start := -1
	for i := 0; i < len(text); i++ {
		if text[i] == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", ErrNoObject
	}

	depth := 0
	inString := false
	escaped := false
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
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", ErrUnbalanced
}
