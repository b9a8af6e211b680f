package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

// InsertClaim stores a new claim, filling in ID, Status and ExtractedAt
// when unset. It reports false without error when a claim with the same
// text already exists.
func (s *Store) InsertClaim(ctx context.Context, claim *model.Claim) (bool, error) {
	if claim.ID == "" {
		claim.ID = newID()
	}
	if claim.Status == "" {
		claim.Status = model.VerdictUnverified
	}
	if claim.ExtractedAt.IsZero() {
		claim.ExtractedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO claims (id, raw_id, text, status, extracted_at) VALUES (?, ?, ?, ?, ?)`,
		claim.ID, claim.RawID, claim.Text, string(claim.Status), claim.ExtractedAt.UnixNano())
	if err != nil {
		return false, fmt.Errorf("inserting claim: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting claim: %w", err)
	}
	return n == 1, nil
}

// GetClaim returns the claim with the given ID
func (s *Store) GetClaim(ctx context.Context, id string) (model.Claim, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, raw_id, text, status, extracted_at FROM claims WHERE id = ?`, id)

	claim, err := scanClaim(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Claim{}, fmt.Errorf("claim %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Claim{}, fmt.Errorf("reading claim: %w", err)
	}
	return claim, nil
}

// FindByStatus returns up to limit claims with the given status, most
// recently extracted first
func (s *Store) FindByStatus(ctx context.Context, status model.Verdict, limit int) ([]model.Claim, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, raw_id, text, status, extracted_at FROM claims
		 WHERE status = ? ORDER BY extracted_at DESC, rowid DESC LIMIT ?`,
		string(status), normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying claims: %w", err)
	}
	return collectClaims(rows)
}

// ListClaims returns up to limit claims of any status, most recent first
func (s *Store) ListClaims(ctx context.Context, limit int) ([]model.Claim, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, raw_id, text, status, extracted_at FROM claims
		 ORDER BY extracted_at DESC, rowid DESC LIMIT ?`,
		normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying claims: %w", err)
	}
	return collectClaims(rows)
}

// UpdateStatus writes a verdict back onto a claim
func (s *Store) UpdateStatus(ctx context.Context, id string, status model.Verdict) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE claims SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("updating claim status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating claim status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("claim %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClaim(row scanner) (model.Claim, error) {
	var (
		claim       model.Claim
		status      string
		extractedAt int64
	)
	if err := row.Scan(&claim.ID, &claim.RawID, &claim.Text, &status, &extractedAt); err != nil {
		return model.Claim{}, err
	}
	claim.Status = model.Verdict(status)
	claim.ExtractedAt = time.Unix(0, extractedAt).UTC()
	return claim, nil
}

func collectClaims(rows *sql.Rows) ([]model.Claim, error) {
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating claims: %w", err)
	}
	return claims, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}
