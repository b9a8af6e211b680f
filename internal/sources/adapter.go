package sources

import (
	"context"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/util"
)

// maxResultsPerAdapter caps what any single adapter contributes per query
const maxResultsPerAdapter = 5

// Adapter retrieves evidence for a search query from one provider.
// An adapter without credentials reports Enabled() == false and returns
// no items and no error from Search.
type Adapter interface {
	Name() string
	Enabled() bool
	Search(ctx context.Context, query string) ([]model.EvidenceItem, error)
}

// DefaultAdapters builds the standard adapter set in registration order:
// web search, news search, social search.
func DefaultAdapters(cfg *model.Config, primary, scrape *Fetcher) []Adapter {
	var robots *util.RobotsChecker
	if cfg.Sources.Social.RespectRobots {
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.ScrapeTimeout, 0)
	}

	return []Adapter{
		NewWebSearch(cfg.Sources.Web, primary),
		NewNewsSearch(cfg.Sources.News, primary),
		NewSocialSearch(cfg.Sources.Social, scrape, robots),
	}
}

// EnabledNames lists the names of adapters that have credentials
func EnabledNames(adapters []Adapter) []string {
	var names []string
	for _, a := range adapters {
		if a.Enabled() {
			names = append(names, a.Name())
		}
	}
	return names
}
