package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ppiankov/claimcheck/internal/model"
)

// NewsSearch queries the NewsAPI /v2/everything endpoint
type NewsSearch struct {
	cfg     model.NewsSearchConfig
	fetcher *Fetcher
}

// NewNewsSearch creates a news search adapter
func NewNewsSearch(cfg model.NewsSearchConfig, fetcher *Fetcher) *NewsSearch {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://newsapi.org/v2/everything"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return &NewsSearch{cfg: cfg, fetcher: fetcher}
}

// Name returns the adapter name
func (n *NewsSearch) Name() string { return "news" }

// Enabled reports whether an API key is set
func (n *NewsSearch) Enabled() bool { return n.cfg.APIKey != "" }

type newsResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Search returns up to five news articles for query
func (n *NewsSearch) Search(ctx context.Context, query string) ([]model.EvidenceItem, error) {
	if !n.Enabled() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", n.cfg.Language)
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", strconv.Itoa(maxResultsPerAdapter))

	header := http.Header{}
	header.Set("X-Api-Key", n.cfg.APIKey)

	var resp newsResponse
	if err := n.fetcher.GetJSON(ctx, n.cfg.BaseURL+"?"+params.Encode(), header, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "error" {
		return nil, fmt.Errorf("%w: newsapi %s: %s", model.ErrUpstreamRejected, resp.Code, resp.Message)
	}

	items := make([]model.EvidenceItem, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if len(items) == maxResultsPerAdapter {
			break
		}
		source := a.Source.Name
		if source == "" {
			source = "NewsAPI"
		}
		items = append(items, model.EvidenceItem{
			Title:   PlainText(a.Title),
			Snippet: PlainText(a.Description),
			Link:    a.URL,
			Source:  source,
		})
	}
	return items, nil
}
