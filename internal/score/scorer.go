package score

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/credibility"
	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/model"
)

// DefaultModelSummary is used when the model returns a verdict without a summary
const DefaultModelSummary = "Verified by model."

// Assessment is a scorer's verdict on a claim
type Assessment struct {
	Verdict    model.Verdict
	Confidence float64
	Summary    string
	Reasons    []string
	Method     model.Method
}

// Scorer assigns a verdict to a claim from its evidence, using a chat model
// when one is configured and a keyword heuristic otherwise
type Scorer struct {
	provider   llm.Provider
	classifier *credibility.Classifier
	logger     *zap.Logger
}

// NewScorer creates a scorer. provider may be nil; classifier may be nil,
// in which case the default credibility lists are used for the digest.
func NewScorer(provider llm.Provider, classifier *credibility.Classifier, logger *zap.Logger) *Scorer {
	if classifier == nil {
		classifier = credibility.NewClassifier(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{
		provider:   provider,
		classifier: classifier,
		logger:     logger,
	}
}

// Score returns the model assessment when it yields a usable verdict and
// the heuristic assessment otherwise. evidence must be the full
// deduplicated list, before any credibility filtering.
func (s *Scorer) Score(ctx context.Context, claimText string, evidence []model.EvidenceItem) Assessment {
	if assessment, ok := s.modelAssessment(ctx, claimText, evidence); ok {
		return assessment
	}
	return Heuristic(evidence)
}

// modelAssessment asks the model for a verdict. false means no usable signal.
func (s *Scorer) modelAssessment(ctx context.Context, claimText string, evidence []model.EvidenceItem) (Assessment, bool) {
	if s.provider == nil {
		return Assessment{}, false
	}

	resp, err := s.provider.Complete(ctx, llm.ChatRequest{
		System:      systemPrompt,
		Prompt:      buildPrompt(claimText, s.digest(evidence)),
		Temperature: 0,
		JSON:        true,
	})
	if err != nil {
		s.logger.Warn("model scoring failed, using heuristic",
			zap.String("provider", s.provider.Name()), zap.Error(err))
		return Assessment{}, false
	}

	var payload verdictPayload
	if err := llm.DecodeJSON(resp.Content, &payload); err != nil {
		s.logger.Warn("model verdict unparsable, using heuristic", zap.Error(err))
		return Assessment{}, false
	}

	verdict, err := model.ParseVerdict(payload.Verdict)
	if err != nil {
		s.logger.Warn("model returned unknown verdict, using heuristic", zap.String("verdict", payload.Verdict))
		return Assessment{}, false
	}

	confidence := 0.5
	if payload.Confidence != nil {
		confidence = model.ClampScore(*payload.Confidence)
	}

	summary := strings.TrimSpace(payload.Summary)
	if summary == "" {
		summary = DefaultModelSummary
	}

	return Assessment{
		Verdict:    verdict,
		Confidence: confidence,
		Summary:    summary,
		Reasons:    []string{summary},
		Method:     model.MethodModel,
	}, true
}

type verdictPayload struct {
	Verdict    string   `json:"verdict"`
	Confidence *float64 `json:"confidence"`
	Summary    string   `json:"summary"`
}

// digest renders one line per evidence item for the model prompt
func (s *Scorer) digest(evidence []model.EvidenceItem) string {
	if len(evidence) == 0 {
		return "No evidence was retrieved."
	}

	var b strings.Builder
	for i, item := range evidence {
		source := item.Source
		if source == "" {
			source = "Unknown"
		}
		fmt.Fprintf(&b, "Source %d (%s, %s): %s - %s\n",
			i+1, source, s.classifier.Classify(item), item.Title, clip(item.Snippet, 400))
	}
	return strings.TrimRight(b.String(), "\n")
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
