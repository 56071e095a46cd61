package gemini

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	arrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
	objectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON parses oracle output into target. The model is asked for pure
// JSON but routinely wraps it in markdown fences or prose, so this is a
// two-stage parse: strict unmarshal of the fenced/cleaned text, then a
// recovery scan for the first bracket-delimited array or object substring.
func ExtractJSON(text string, target interface{}) error {
	cleaned := stripFences(text)

	if err := json.Unmarshal([]byte(cleaned), target); err == nil {
		return nil
	}
	if m := arrayRe.FindString(cleaned); m != "" {
		if err := json.Unmarshal([]byte(m), target); err == nil {
			return nil
		}
	}
	if m := objectRe.FindString(cleaned); m != "" {
		if err := json.Unmarshal([]byte(m), target); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no parseable JSON in oracle response")
}

// stripFences removes a ```json ... ``` wrapper if present.
func stripFences(s string) string {
	start := 0
	end := len(s)

	if idx := strings.Index(s, "```json"); idx != -1 {
		start = idx + 7
	} else if idx := strings.Index(s, "```"); idx != -1 {
		start = idx + 3
	}
	if idx := strings.Index(s[start:], "```"); idx != -1 {
		end = start + idx
	}
	return strings.TrimSpace(s[start:end])
}
