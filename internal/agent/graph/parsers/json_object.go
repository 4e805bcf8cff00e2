package parsers

import (
	"encoding/json"
	"fmt"
	"strings"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 64 * 1024 // 64KB
	maxErrSnippet = 200       // limit error snippet size
)

// FirstObject returns the first balanced top-level {...} in s, ignoring any
// commentary or code fences around it. Braces inside JSON strings are skipped.
//
// Iterating bytes is safe for the ASCII delimiters because UTF-8 never
// reuses ASCII bytes inside multi-byte sequences.
func FirstObject(s string) (string, bool) {
	depth := 0
	start := -1
	inString := false
	escape := false

	for i := 0; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			// strings only matter once we are inside an object
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// decodeFirstObject locates and decodes the first object of content.
func decodeFirstObject(content string) (map[string]any, error) {
	if len(content) > maxContentLen {
		content = content[:maxContentLen]
	}
	raw, ok := FirstObject(content)
	if !ok {
		return nil, fmt.Errorf("no json object in reply: %q", safeSnippet(content))
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("decode json object: %w", err)
	}
	return m, nil
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}
