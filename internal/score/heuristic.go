package score

import (
	"fmt"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

var (
	// falsityMarkers signal a snippet calling something untrue
	falsityMarkers = []string{"false", "not true", "misleading", "debunked", "hoax", "fabricated"}

	// factCheckMarkers signal that a fact-checker has looked at the claim
	factCheckMarkers = []string{
		"fact-check", "fact check", "factcheck", "snopes", "politifact",
		"full fact", "afp fact", "reuters fact",
	}
)

// Penalties and bands are kept in hundredths so results are exact
const (
	heuristicStart     = 50
	falsityPenalty     = 25
	factCheckPenalty   = 20
	falseBandCeiling   = 0.35
	mixtureBandCeiling = 0.6
)

// Heuristic scores evidence by counting negative markers in snippets.
// It has no positive signal, so it never returns VerdictTrue. Each snippet
// counts at most once per marker group.
func Heuristic(evidence []model.EvidenceItem) Assessment {
	var falsity, factChecks int
	for _, item := range evidence {
		snippet := strings.ToLower(item.Snippet)
		if containsAny(snippet, falsityMarkers) {
			falsity++
		}
		if containsAny(snippet, factCheckMarkers) {
			factChecks++
		}
	}

	points := heuristicStart - falsity*falsityPenalty - factChecks*factCheckPenalty
	confidence := model.ClampScore(float64(points) / 100)

	verdict := model.VerdictUnverified
	switch {
	case confidence < falseBandCeiling:
		verdict = model.VerdictFalse
	case confidence < mixtureBandCeiling:
		verdict = model.VerdictMixture
	}

	return Assessment{
		Verdict:    verdict,
		Confidence: confidence,
		Summary: fmt.Sprintf("Heuristic fallback: %d of %d snippets carry falsity markers and %d carry fact-check markers (score %.2f).",
			falsity, len(evidence), factChecks, confidence),
		Reasons: []string{
			fmt.Sprintf("falsity markers: %d (-%.2f each)", falsity, float64(falsityPenalty)/100),
			fmt.Sprintf("fact-check markers: %d (-%.2f each)", factChecks, float64(factCheckPenalty)/100),
			fmt.Sprintf("formula: clamp(0.50 - 0.25*%d - 0.20*%d) = %.2f", falsity, factChecks, confidence),
		},
		Method: model.MethodHeuristic,
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
