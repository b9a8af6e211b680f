package evidence

import "github.com/ppiankov/claimcheck/internal/model"

// Dedupe removes items whose Link was already seen, keeping the first
// occurrence and the relative order of the rest. Items with an empty Link
// are always kept and never compared with each other.
func Dedupe(items []model.EvidenceItem) []model.EvidenceItem {
	seen := make(map[string]bool, len(items))
	unique := make([]model.EvidenceItem, 0, len(items))

	for _, item := range items {
		if item.Link == "" {
			unique = append(unique, item)
			continue
		}
		if seen[item.Link] {
			continue
		}
		seen[item.Link] = true
		unique = append(unique, item)
	}

	return unique
}
