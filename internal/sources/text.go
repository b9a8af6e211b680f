package sources

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// PlainText strips markup from s, unescapes entities and collapses
// whitespace. Search APIs return highlighted snippets with <b> tags and
// encoded quotes.
func PlainText(s string) string {
	if s == "" {
		return ""
	}

	var buf strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	skip := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(buf.String()), " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isHiddenTag(string(name)) {
				skip++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isHiddenTag(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				buf.Write(tokenizer.Text())
				buf.WriteByte(' ')
			}
		}
	}
}

func isHiddenTag(name string) bool {
	switch name {
	case "script", "style", "noscript":
		return true
	}
	return false
}

// truncateRunes caps s at max runes, appending an ellipsis when cut
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}

// redactQuery drops the query string so API keys never reach logs
func redactQuery(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	parsed.RawQuery = ""
	return parsed.String()
}
