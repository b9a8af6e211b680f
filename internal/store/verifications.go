package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

// InsertVerification persists a verification result and assigns its ID
func (s *Store) InsertVerification(ctx context.Context, result *model.VerificationResult) error {
	reasons, err := json.Marshal(nonNil(result.Reasons))
	if err != nil {
		return fmt.Errorf("encoding reasons: %w", err)
	}
	queries, err := json.Marshal(nonNil(result.Queries))
	if err != nil {
		return fmt.Errorf("encoding queries: %w", err)
	}
	evidence := result.Evidence
	if evidence == nil {
		evidence = []model.EvidenceItem{}
	}
	evidenceJSON, err := json.Marshal(evidence)
	if err != nil {
		return fmt.Errorf("encoding evidence: %w", err)
	}

	checkedAt := result.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = time.Now().UTC()
	}

	id := newID()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO verifications
		 (id, claim_id, claim, verdict, score, method, summary, reasons, queries, evidence, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, result.ClaimID, result.Claim, string(result.Verdict), result.Score, string(result.Method),
		result.Summary, string(reasons), string(queries), string(evidenceJSON), checkedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("inserting verification: %w", err)
	}

	result.ID = id
	return nil
}

// ListVerifications returns up to limit results, most recently checked first
func (s *Store) ListVerifications(ctx context.Context, limit int) ([]model.VerificationResult, error) {
	rows, err := s.db.QueryContext(ctx,
		selectVerifications+` ORDER BY checked_at DESC, rowid DESC LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying verifications: %w", err)
	}
	return collectVerifications(rows)
}

// VerificationsForClaim returns every result recorded for a claim, newest first
func (s *Store) VerificationsForClaim(ctx context.Context, claimID string) ([]model.VerificationResult, error) {
	rows, err := s.db.QueryContext(ctx,
		selectVerifications+` WHERE claim_id = ? ORDER BY checked_at DESC, rowid DESC`, claimID)
	if err != nil {
		return nil, fmt.Errorf("querying verifications: %w", err)
	}
	return collectVerifications(rows)
}

const selectVerifications = `SELECT id, claim_id, claim, verdict, score, method, summary,
	reasons, queries, evidence, checked_at FROM verifications`

func collectVerifications(rows *sql.Rows) ([]model.VerificationResult, error) {
	defer rows.Close()

	var results []model.VerificationResult
	for rows.Next() {
		var (
			r                          model.VerificationResult
			verdict, method            string
			reasons, queries, evidence string
			checkedAt                  int64
		)
		if err := rows.Scan(&r.ID, &r.ClaimID, &r.Claim, &verdict, &r.Score, &method, &r.Summary,
			&reasons, &queries, &evidence, &checkedAt); err != nil {
			return nil, fmt.Errorf("scanning verification: %w", err)
		}

		r.Verdict = model.Verdict(verdict)
		r.Method = model.Method(method)
		r.CheckedAt = time.Unix(0, checkedAt).UTC()

		if err := json.Unmarshal([]byte(reasons), &r.Reasons); err != nil {
			return nil, fmt.Errorf("decoding reasons for %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(queries), &r.Queries); err != nil {
			return nil, fmt.Errorf("decoding queries for %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(evidence), &r.Evidence); err != nil {
			return nil, fmt.Errorf("decoding evidence for %s: %w", r.ID, err)
		}

		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating verifications: %w", err)
	}
	return results, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
