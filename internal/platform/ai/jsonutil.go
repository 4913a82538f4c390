package ai

import (
	"errors"
	"strings"
)

var ErrNoJSON = errors.New("no JSON found in model output")

// ExtractJSON pulls the first JSON object out of model output. Models
// routinely wrap JSON in markdown fences or chat around it, so we scan
// for a balanced object rather than unmarshalling the raw text.
func ExtractJSON(s string) (string, error) {
	return extractBalanced(stripFences(s), '{', '}')
}

// ExtractJSONArray does the same for a top-level array.
func ExtractJSONArray(s string) (string, error) {
	return extractBalanced(stripFences(s), '[', ']')
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func extractBalanced(s string, open, close byte) (string, error) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", ErrNoJSON
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSON
}
