package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/model"
)

// MaxQueries bounds how many decomposed queries are searched per claim
const MaxQueries = 3

// Aggregator fans each query out to every adapter and merges the results
type Aggregator struct {
	adapters []Adapter
	cache    cache.Cache
	logger   *zap.Logger
}

// NewAggregator creates an aggregator over adapters in registration order.
// resultCache may be nil.
func NewAggregator(adapters []Adapter, resultCache cache.Cache, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		adapters: adapters,
		cache:    resultCache,
		logger:   logger,
	}
}

// Gather searches at most MaxQueries queries, one after another. Within a
// query all adapters run concurrently and are joined before the next query
// starts. Output order is query order, then adapter order, then each
// adapter's own order. A failing adapter contributes nothing.
func (a *Aggregator) Gather(ctx context.Context, queries []string) []model.EvidenceItem {
	if len(queries) > MaxQueries {
		queries = queries[:MaxQueries]
	}

	var evidence []model.EvidenceItem
	for _, query := range queries {
		if ctx.Err() != nil {
			break
		}
		evidence = append(evidence, a.gatherQuery(ctx, query)...)
	}
	return evidence
}

func (a *Aggregator) gatherQuery(ctx context.Context, query string) []model.EvidenceItem {
	slots := make([][]model.EvidenceItem, len(a.adapters))

	// Plain group: every goroutine returns nil so one adapter failing
	// never cancels its siblings.
	var g errgroup.Group
	for i, adapter := range a.adapters {
		i, adapter := i, adapter
		g.Go(func() error {
			items, err := a.search(ctx, adapter, query)
			if err != nil {
				a.logger.Warn("adapter search failed",
					zap.String("adapter", adapter.Name()),
					zap.String("query", query),
					zap.Error(err))
				return nil
			}
			slots[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var merged []model.EvidenceItem
	for _, items := range slots {
		merged = append(merged, items...)
	}

	a.logger.Debug("query gathered", zap.String("query", query), zap.Int("items", len(merged)))
	return merged
}

// search runs one adapter behind a recover guard and the result cache
func (a *Aggregator) search(ctx context.Context, adapter Adapter, query string) (items []model.EvidenceItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("adapter panicked",
				zap.String("adapter", adapter.Name()),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			items, err = nil, fmt.Errorf("adapter %s panicked: %v", adapter.Name(), r)
		}
	}()

	if !adapter.Enabled() {
		return nil, nil
	}

	key := cache.Key(adapter.Name(), query)
	if a.cache != nil {
		if data, ok := a.cache.Get(key); ok {
			var cached []model.EvidenceItem
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	items, err = adapter.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if data, mErr := json.Marshal(items); mErr == nil {
			if cErr := a.cache.Set(key, data, 0); cErr != nil {
				a.logger.Debug("cache write failed", zap.String("adapter", adapter.Name()), zap.Error(cErr))
			}
		}
	}
	return items, nil
}
