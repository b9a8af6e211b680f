package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Verifier verifies a single claim text. Implementations never fail; a
// degraded run is reported through the result itself.
type Verifier interface {
	Verify(ctx context.Context, claimText string) model.VerificationResult
}

// ClaimStore reads pending claims and records verdicts
type ClaimStore interface {
	FindByStatus(ctx context.Context, status model.Verdict, limit int) ([]model.Claim, error)
	UpdateStatus(ctx context.Context, claimID string, status model.Verdict) error
}

// VerificationStore persists verification results. Implementations assign
// result.ID on success.
type VerificationStore interface {
	InsertVerification(ctx context.Context, result *model.VerificationResult) error
}

// BatchRunner verifies pending claims one at a time
type BatchRunner struct {
	verifier      Verifier
	claims        ClaimStore
	verifications VerificationStore
	logger        *zap.Logger
}

// NewBatchRunner creates a new batch runner
func NewBatchRunner(verifier Verifier, claims ClaimStore, verifications VerificationStore, logger *zap.Logger) *BatchRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchRunner{
		verifier:      verifier,
		claims:        claims,
		verifications: verifications,
		logger:        logger,
	}
}

// RunBatch verifies up to limit unverified claims, most recently extracted
// first. Claims are processed sequentially to bound external call volume.
// Only a failure to read the pending claims is returned as an error; a
// claim whose result cannot be persisted is logged and skipped, and its
// status stays unverified so the next run picks it up again.
func (b *BatchRunner) RunBatch(ctx context.Context, limit int) ([]model.VerificationResult, error) {
	pending, err := b.claims.FindByStatus(ctx, model.VerdictUnverified, limit)
	if err != nil {
		return nil, fmt.Errorf("load unverified claims: %w", err)
	}

	b.logger.Info("batch started", zap.Int("claims", len(pending)), zap.Int("limit", limit))

	results := make([]model.VerificationResult, 0, len(pending))
	for _, claim := range pending {
		if err := ctx.Err(); err != nil {
			b.logger.Warn("batch interrupted", zap.Error(err), zap.Int("done", len(results)))
			break
		}

		result := b.verifier.Verify(ctx, claim.Text)
		result.ClaimID = claim.ID

		if err := b.verifications.InsertVerification(ctx, &result); err != nil {
			b.logger.Error("persist verification failed",
				zap.String("claim_id", claim.ID), zap.Error(err))
			continue
		}

		if err := b.claims.UpdateStatus(ctx, claim.ID, result.Verdict); err != nil {
			b.logger.Error("update claim status failed",
				zap.String("claim_id", claim.ID), zap.String("verdict", string(result.Verdict)), zap.Error(err))
		}

		b.logger.Info("claim verified",
			zap.String("claim_id", claim.ID),
			zap.String("verdict", string(result.Verdict)),
			zap.Float64("score", result.Score),
			zap.String("method", string(result.Method)),
			zap.Int("evidence", len(result.Evidence)))

		results = append(results, result)
	}

	return results, nil
}

// RunEvery runs a batch immediately and then once per interval until ctx
// ends. onBatch, when set, receives each batch outcome.
func (b *BatchRunner) RunEvery(ctx context.Context, interval time.Duration, limit int, onBatch func([]model.VerificationResult, error)) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		results, err := b.RunBatch(ctx, limit)
		if err != nil {
			b.logger.Error("batch failed", zap.Error(err))
		}
		if onBatch != nil {
			onBatch(results, err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
