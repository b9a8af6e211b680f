package sources

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ppiankov/claimcheck/internal/model"
)

// WebSearch queries the Google Custom Search JSON API
type WebSearch struct {
	cfg     model.WebSearchConfig
	fetcher *Fetcher
}

// NewWebSearch creates a web search adapter
func NewWebSearch(cfg model.WebSearchConfig, fetcher *Fetcher) *WebSearch {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.googleapis.com/customsearch/v1"
	}
	return &WebSearch{cfg: cfg, fetcher: fetcher}
}

// Name returns the adapter name
func (w *WebSearch) Name() string { return "web" }

// Enabled reports whether both the API key and engine ID are set
func (w *WebSearch) Enabled() bool {
	return w.cfg.APIKey != "" && w.cfg.EngineID != ""
}

type cseResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Snippet     string `json:"snippet"`
		Link        string `json:"link"`
		DisplayLink string `json:"displayLink"`
	} `json:"items"`
}

// Search returns up to five web results for query
func (w *WebSearch) Search(ctx context.Context, query string) ([]model.EvidenceItem, error) {
	if !w.Enabled() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("key", w.cfg.APIKey)
	params.Set("cx", w.cfg.EngineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(maxResultsPerAdapter))

	var resp cseResponse
	if err := w.fetcher.GetJSON(ctx, w.cfg.BaseURL+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	items := make([]model.EvidenceItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		if len(items) == maxResultsPerAdapter {
			break
		}
		items = append(items, model.EvidenceItem{
			Title:   PlainText(it.Title),
			Snippet: PlainText(it.Snippet),
			Link:    it.Link,
			Source:  it.DisplayLink,
		})
	}
	return items, nil
}
