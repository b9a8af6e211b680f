package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/credibility"
	"github.com/ppiankov/claimcheck/internal/decompose"
	"github.com/ppiankov/claimcheck/internal/evidence"
	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/score"
	"github.com/ppiankov/claimcheck/internal/sources"
	"github.com/ppiankov/claimcheck/internal/worker"
)

// Decomposer splits a claim into search queries
type Decomposer interface {
	Decompose(ctx context.Context, claimText string) []string
}

// Gatherer retrieves evidence for a list of queries
type Gatherer interface {
	Gather(ctx context.Context, queries []string) []model.EvidenceItem
}

// Scorer assigns a verdict from the full deduplicated evidence
type Scorer interface {
	Score(ctx context.Context, claimText string, evidence []model.EvidenceItem) score.Assessment
}

// Filter trims evidence for display
type Filter interface {
	Filter(items []model.EvidenceItem) []model.EvidenceItem
}

// Stages are the components a Pipeline sequences
type Stages struct {
	Decomposer Decomposer
	Gatherer   Gatherer
	Scorer     Scorer
	Filter     Filter
}

// Pipeline verifies claims: decompose, gather, dedupe, score, filter,
// assemble
type Pipeline struct {
	stages Stages
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithClock sets the clock used for CheckedAt
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// NewWithStages creates a pipeline over explicit stages
func NewWithStages(stages Stages, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		stages: stages,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// New builds the full pipeline from configuration. Missing credentials
// degrade the affected stages instead of failing; only an unknown model
// provider is an error.
func New(cfg *model.Config, logger *zap.Logger, opts ...Option) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg))
	if err != nil {
		if !errors.Is(err, model.ErrConfigMissing) {
			return nil, fmt.Errorf("create LLM provider: %w", err)
		}
		logger.Warn("model provider unavailable, using claim-as-query and heuristic scoring",
			zap.String("provider", cfg.LLM.Provider), zap.Error(err))
		provider = nil
	}

	limiter := worker.NewLimiterFromConfig(cfg.RateLimiting)
	if u, err := url.Parse(cfg.Sources.Social.BaseURL); err == nil && u.Host != "" {
		// Unauthenticated Reddit search tolerates far less than keyed APIs
		limiter.SetHostRate(u.Host, 1, 2)
	}

	primary, scrape := sources.NewFetchers(cfg, limiter)
	adapters := sources.DefaultAdapters(cfg, primary, scrape)
	classifier := credibility.NewClassifier(&cfg.Credibility)

	enabled := sources.EnabledNames(adapters)
	if len(enabled) == 0 {
		logger.Warn("no evidence sources enabled")
	}
	providerName := "none"
	if provider != nil {
		providerName = provider.Name()
	}
	logger.Debug("pipeline configured",
		zap.String("provider", providerName),
		zap.Bool("model_credentials", llm.Enabled(cfg)),
		zap.Strings("sources", enabled))

	stages := Stages{
		Decomposer: decompose.NewDecomposer(provider, logger.Named("decompose")),
		Gatherer:   sources.NewAggregator(adapters, cache.New(cfg.Cache), logger.Named("sources")),
		Scorer:     score.NewScorer(provider, classifier, logger.Named("score")),
		Filter:     classifier,
	}
	return NewWithStages(stages, logger, opts...), nil
}

// Verify runs the full pipeline for one claim. It never fails: a stage
// that panics or is cancelled contributes its safe value, and the result
// is always well-formed with a non-empty summary.
func (p *Pipeline) Verify(ctx context.Context, claimText string) model.VerificationResult {
	// 1. Decompose into search queries
	queries := guard(p, "decompose", []string{claimText}, func() []string {
		return p.stages.Decomposer.Decompose(ctx, claimText)
	})
	if len(queries) == 0 {
		queries = []string{claimText}
	}

	// 2. Gather evidence across sources
	gathered := guard(p, "gather", nil, func() []model.EvidenceItem {
		if ctx.Err() != nil {
			return nil
		}
		return p.stages.Gatherer.Gather(ctx, queries)
	})

	// 3. Dedupe by link
	unique := guard(p, "dedupe", nil, func() []model.EvidenceItem {
		return evidence.Dedupe(gathered)
	})

	// 4. Score against the full deduplicated evidence
	assessment := guard(p, "score", unavailable("scoring failed"), func() score.Assessment {
		if err := ctx.Err(); err != nil {
			return unavailable(err.Error())
		}
		return p.stages.Scorer.Score(ctx, claimText, unique)
	})

	// 5. Filter for display only
	display := guard(p, "filter", nil, func() []model.EvidenceItem {
		return p.stages.Filter.Filter(unique)
	})

	result := p.assemble(claimText, queries, display, assessment)

	p.logger.Info("claim verified",
		zap.String("claim", claimText),
		zap.String("verdict", string(result.Verdict)),
		zap.Float64("score", result.Score),
		zap.String("method", string(result.Method)),
		zap.Int("queries", len(queries)),
		zap.Int("evidence_scored", len(unique)),
		zap.Int("evidence_shown", len(display)))

	return result
}

func (p *Pipeline) assemble(claimText string, queries []string, display []model.EvidenceItem, a score.Assessment) model.VerificationResult {
	verdict := a.Verdict
	if !verdict.Valid() {
		verdict = model.VerdictUnverified
	}

	summary := strings.TrimSpace(a.Summary)
	if summary == "" {
		summary = "Verification unavailable: no explanation was produced."
	}

	method := a.Method
	if method == "" {
		method = model.MethodUnavailable
	}

	reasons := append([]string{}, a.Reasons...)
	if len(reasons) == 0 {
		reasons = []string{summary}
	}

	if display == nil {
		display = []model.EvidenceItem{}
	}

	return model.VerificationResult{
		Claim:     claimText,
		Verdict:   verdict,
		Score:     model.ClampScore(a.Confidence),
		Evidence:  display,
		Queries:   append([]string{}, queries...),
		Reasons:   reasons,
		Summary:   summary,
		Method:    method,
		CheckedAt: p.now().UTC(),
	}
}

// unavailable is the safe assessment when scoring cannot run at all
func unavailable(reason string) score.Assessment {
	summary := "Verification unavailable: " + reason
	return score.Assessment{
		Verdict:    model.VerdictUnverified,
		Confidence: 0,
		Summary:    summary,
		Reasons:    []string{summary},
		Method:     model.MethodUnavailable,
	}
}

// guard runs one stage and substitutes fallback if it panics
func guard[T any](p *Pipeline, stage string, fallback T, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline stage panicked",
				zap.String("stage", stage),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			out = fallback
		}
	}()
	return fn()
}
