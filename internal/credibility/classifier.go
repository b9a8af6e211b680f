package credibility

import (
	"net/url"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Classifier filters out known fiction and satire sources and assigns
// credibility tiers to the rest
type Classifier struct {
	denylist     []string
	primaryMap   map[string]bool
	secondaryMap map[string]bool
}

// NewClassifier creates a classifier from config. A nil config uses the
// default denylist and domain lists.
func NewClassifier(config *model.CredibilityConfig) *Classifier {
	if config == nil {
		config = &model.DefaultConfig().Credibility
	}

	classifier := &Classifier{
		denylist:     make([]string, 0, len(config.Denylist)),
		primaryMap:   make(map[string]bool),
		secondaryMap: make(map[string]bool),
	}

	for _, token := range config.Denylist {
		if token = strings.ToLower(strings.TrimSpace(token)); token != "" {
			classifier.denylist = append(classifier.denylist, token)
		}
	}
	for _, domain := range config.PrimaryDomains {
		classifier.primaryMap[strings.ToLower(domain)] = true
	}
	for _, domain := range config.SecondaryDomains {
		classifier.secondaryMap[strings.ToLower(domain)] = true
	}

	return classifier
}

// Denied reports whether the item's Source or Link contains any denylist
// token, case-insensitively
func (c *Classifier) Denied(item model.EvidenceItem) bool {
	source := strings.ToLower(item.Source)
	link := strings.ToLower(item.Link)

	for _, token := range c.denylist {
		if strings.Contains(source, token) || strings.Contains(link, token) {
			return true
		}
	}
	return false
}

// Filter returns the items that are not denied, in their original order.
// The input slice is not modified.
func (c *Classifier) Filter(items []model.EvidenceItem) []model.EvidenceItem {
	kept := make([]model.EvidenceItem, 0, len(items))
	for _, item := range items {
		if !c.Denied(item) {
			kept = append(kept, item)
		}
	}
	return kept
}

// Classify assigns a credibility tier to an evidence item
func (c *Classifier) Classify(item model.EvidenceItem) model.CredibilityTier {
	if c.Denied(item) {
		return model.TierSatire
	}

	parsed, err := url.Parse(item.Link)
	if err != nil || parsed.Host == "" {
		return model.TierTertiary
	}

	host := strings.ToLower(parsed.Hostname())

	if matchesDomain(host, c.primaryMap) {
		return model.TierPrimary
	}
	if matchesDomain(host, c.secondaryMap) {
		return model.TierSecondary
	}

	// Government and academic hosts
	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") || strings.HasSuffix(host, ".ac.uk") {
		return model.TierPrimary
	}

	return model.TierTertiary
}

// matchesDomain reports whether host equals or is a subdomain of any
// domain in the set (e.g. en.wikipedia.org matches wikipedia.org)
func matchesDomain(host string, domains map[string]bool) bool {
	if domains[host] {
		return true
	}
	for domain := range domains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
