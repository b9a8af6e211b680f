package decompose

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/llm"
)

// MaxQueries is the most search queries a claim is split into
const MaxQueries = 4

const systemPrompt = "You are a research planner."

const promptTemplate = `Break down the following claim into 1-4 specific, factual search queries that would help verify it.

Claim: %q

Guidelines:
- If the claim is simple, return the claim itself as the only query.
- If the claim is biologically or physically implausible (e.g. "Elon Musk is alien"), ask one query about the subject's factual identity or biography AND one about the origin of the rumor, meme or conspiracy.
- If the claim is compound, split it into its independent factual sub-claims.

Respond with JSON only:
{"queries": ["query 1", "query 2"]}`

// Decomposer splits a claim into search queries using a chat model
type Decomposer struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewDecomposer creates a decomposer. A nil provider disables the model
// call and every claim becomes its own single query.
func NewDecomposer(provider llm.Provider, logger *zap.Logger) *Decomposer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decomposer{provider: provider, logger: logger}
}

type queriesPayload struct {
	Queries []string `json:"queries"`
}

// Decompose returns 1-4 search queries for claimText. It never fails: any
// model error, unparsable reply or empty query list yields [claimText].
func (d *Decomposer) Decompose(ctx context.Context, claimText string) []string {
	fallback := []string{claimText}
	if d.provider == nil {
		return fallback
	}

	resp, err := d.provider.Complete(ctx, llm.ChatRequest{
		System:      systemPrompt,
		Prompt:      fmt.Sprintf(promptTemplate, claimText),
		Temperature: 0,
		MaxTokens:   300,
		JSON:        true,
	})
	if err != nil {
		d.logger.Warn("decomposition failed, using claim as query",
			zap.String("provider", d.provider.Name()), zap.Error(err))
		return fallback
	}

	var payload queriesPayload
	if err := llm.DecodeJSON(resp.Content, &payload); err != nil {
		d.logger.Warn("decomposition reply unparsable, using claim as query", zap.Error(err))
		return fallback
	}

	queries := normalize(payload.Queries)
	if len(queries) == 0 {
		d.logger.Debug("decomposition returned no queries, using claim as query")
		return fallback
	}

	d.logger.Debug("claim decomposed", zap.String("claim", claimText), zap.Strings("queries", queries))
	return queries
}

// normalize trims queries, drops blanks and duplicates, and truncates to
// MaxQueries
func normalize(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	var queries []string

	for _, q := range raw {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		queries = append(queries, q)
		if len(queries) == MaxQueries {
			break
		}
	}
	return queries
}
