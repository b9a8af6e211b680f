package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/util"
)

const (
	redditLinkBase   = "https://www.reddit.com"
	maxSocialSnippet = 600
)

// SocialSearch queries Reddit's public search endpoint. It needs no
// credential and uses the secondary (scrape) fetcher.
type SocialSearch struct {
	cfg     model.SocialSearchConfig
	fetcher *Fetcher
	robots  *util.RobotsChecker
}

// NewSocialSearch creates a social search adapter. robots may be nil.
func NewSocialSearch(cfg model.SocialSearchConfig, fetcher *Fetcher, robots *util.RobotsChecker) *SocialSearch {
	if cfg.BaseURL == "" {
		cfg.BaseURL = redditLinkBase
	}
	return &SocialSearch{cfg: cfg, fetcher: fetcher, robots: robots}
}

// Name returns the adapter name
func (s *SocialSearch) Name() string { return "social" }

// Enabled reports whether the adapter is switched on
func (s *SocialSearch) Enabled() bool { return s.cfg.Enabled }

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title                 string `json:"title"`
				Selftext              string `json:"selftext"`
				Permalink             string `json:"permalink"`
				Subreddit             string `json:"subreddit"`
				SubredditNamePrefixed string `json:"subreddit_name_prefixed"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Search returns up to five Reddit posts for query
func (s *SocialSearch) Search(ctx context.Context, query string) ([]model.EvidenceItem, error) {
	if !s.Enabled() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "relevance")
	params.Set("limit", strconv.Itoa(maxResultsPerAdapter))
	params.Set("type", "link,self")
	searchURL := strings.TrimRight(s.cfg.BaseURL, "/") + "/search.json?" + params.Encode()

	if s.robots != nil {
		allowed, err := s.robots.CanFetch(ctx, searchURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%w: robots.txt disallows %s", model.ErrUpstreamRejected, redactQuery(searchURL))
		}
	}

	var listing redditListing
	if err := s.fetcher.GetJSON(ctx, searchURL, nil, &listing); err != nil {
		return nil, err
	}

	items := make([]model.EvidenceItem, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if len(items) == maxResultsPerAdapter {
			break
		}
		post := child.Data

		snippet := PlainText(post.Selftext)
		if snippet == "" {
			snippet = PlainText(post.Title)
		}

		community := post.SubredditNamePrefixed
		if community == "" && post.Subreddit != "" {
			community = "r/" + post.Subreddit
		}

		var link string
		if post.Permalink != "" {
			link = redditLinkBase + post.Permalink
		}

		items = append(items, model.EvidenceItem{
			Title:   PlainText(post.Title),
			Snippet: truncateRunes(snippet, maxSocialSnippet),
			Link:    link,
			Source:  fmt.Sprintf("Reddit (%s)", community),
		})
	}
	return items, nil
}
