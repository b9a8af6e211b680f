package model

// EvidenceItem is a single retrieved snippet with its provenance.
// Link is the identity key; every field defaults to the empty string.
type EvidenceItem struct {
	Title   string `json:"title" yaml:"title"`
	Snippet string `json:"snippet" yaml:"snippet"`
	Link    string `json:"link" yaml:"link"`
	Source  string `json:"source" yaml:"source"` // Human-readable provenance (site, community)
}

// CredibilityTier classifies how much weight a source deserves
type CredibilityTier int

const (
	TierUnknown   CredibilityTier = 0
	TierPrimary   CredibilityTier = 1 // Government, academic, dedicated fact-checkers
	TierSecondary CredibilityTier = 2 // Established news media
	TierTertiary  CredibilityTier = 3 // Blogs, forums, everything else
	TierSatire    CredibilityTier = 4 // Known fiction, satire or joke communities
)

func (t CredibilityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	case TierSatire:
		return "satire"
	default:
		return "unknown"
	}
}
