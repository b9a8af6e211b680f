package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Candidate is a sentence that looks like a checkable claim
type Candidate struct {
	Text     string `json:"text" yaml:"text"`
	Keyword  string `json:"keyword" yaml:"keyword"`   // Trigger keyword that matched
	Sentence int    `json:"sentence" yaml:"sentence"` // Index of the sentence in the source text
}

// ClaimExtractor picks candidate claims out of article text
type ClaimExtractor struct {
	keywords []string
	minWords int
	maxWords int
}

// NewClaimExtractor creates an extractor with the default trigger keywords
// and a 5-40 word sentence window
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		keywords: []string{
			"cause", "prevent", "cure", "vaccine", "ban",
			"laws", "immediately", "proven", "study", "research",
		},
		minWords: 5,
		maxWords: 40,
	}
}

// ExtractHTML extracts candidates from an HTML page. Paragraph text is
// preferred; pages without <p> elements fall back to all visible text.
func (e *ClaimExtractor) ExtractHTML(htmlContent string) ([]Candidate, error) {
	doc, err := parseHTML(htmlContent)
	if err != nil {
		return nil, err
	}
	return e.ExtractText(ArticleText(doc)), nil
}

// ExtractText extracts candidates from plain text
func (e *ClaimExtractor) ExtractText(text string) []Candidate {
	var candidates []Candidate

	for i, sentence := range splitSentences(text) {
		words := len(strings.Fields(sentence))
		if words < e.minWords || words > e.maxWords {
			continue
		}

		lower := strings.ToLower(sentence)
		for _, keyword := range e.keywords {
			if strings.Contains(lower, keyword) {
				candidates = append(candidates, Candidate{
					Text:     sentence,
					Keyword:  keyword,
					Sentence: i,
				})
				break // Only match once per sentence
			}
		}
	}

	return dedupeCandidates(candidates)
}

func parseHTML(htmlContent string) (*html.Node, error) {
	return html.Parse(strings.NewReader(htmlContent))
}

// ArticleText returns the text of the page's <p> elements, one paragraph
// per line, or all visible text when there are none
func ArticleText(doc *html.Node) string {
	var paragraphs []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if isInvisible(n.Data) {
				return
			}
			if n.Data == "p" {
				if text := strings.TrimSpace(extractVisibleText(n)); text != "" {
					paragraphs = append(paragraphs, text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(paragraphs) == 0 {
		return extractVisibleText(doc)
	}
	return strings.Join(paragraphs, "\n")
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isInvisible(n.Data) {
			return
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

func isInvisible(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "iframe", "template":
		return true
	}
	return false
}

// splitSentences splits text on sentence terminators followed by
// whitespace, and on line breaks
func splitSentences(text string) []string {
	var sentences []string

	for _, line := range strings.Split(text, "\n") {
		var current strings.Builder
		runes := []rune(line)

		for i, r := range runes {
			current.WriteRune(r)

			if r == '.' || r == '!' || r == '?' {
				if i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\t' {
					if sentence := strings.TrimSpace(current.String()); sentence != "" {
						sentences = append(sentences, sentence)
					}
					current.Reset()
				}
			}
		}

		if sentence := strings.TrimSpace(current.String()); sentence != "" {
			sentences = append(sentences, sentence)
		}
	}

	return sentences
}

// dedupeCandidates removes repeated sentences, ignoring case
func dedupeCandidates(candidates []Candidate) []Candidate {
	seen := make(map[string]bool)
	var unique []Candidate

	for _, c := range candidates {
		key := strings.ToLower(strings.TrimSpace(c.Text))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, c)
		}
	}

	return unique
}
