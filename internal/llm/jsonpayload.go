package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// ExtractJSON returns the JSON payload inside a model reply. Models often
// wrap JSON in a fenced block, or add prose around the object.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```"); idx >= 0 {
		return fencedBody(text[idx+len("```"):])
	}

	// Bare reply with surrounding prose: keep the outermost object
	if !strings.HasPrefix(text, "{") {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start >= 0 && end > start {
			return text[start : end+1]
		}
	}
	return text
}

// fencedBody returns the fenced content after the opening ```, minus a
// language tag (json, JSON, javascript) on the opening line
func fencedBody(rest string) string {
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && isLanguageTag(rest[:nl]) {
		rest = rest[nl+1:]
	} else if nl < 0 {
		// Single-line fence: ```json {"a": 1}```
		if tag, body, ok := strings.Cut(strings.TrimSpace(rest), " "); ok && isLanguageTag(tag) {
			rest = body
		}
	}
	return strings.TrimSpace(rest)
}

func isLanguageTag(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

// DecodeJSON extracts and unmarshals a model reply into out.
// Failures wrap model.ErrMalformedResponse.
func DecodeJSON(content string, out any) error {
	payload := ExtractJSON(content)
	if payload == "" {
		return fmt.Errorf("%w: empty reply", model.ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("%w: %v", model.ErrMalformedResponse, err)
	}
	return nil
}
