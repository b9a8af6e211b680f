package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ppiankov/claimcheck/internal/model"
)

type StoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
	base  time.Time
}

func (s *StoreSuite) SetupTest() {
	st, err := Open(filepath.Join(s.T().TempDir(), "data", "claimcheck.db"))
	s.Require().NoError(err)
	s.store = st
	s.ctx = context.Background()
	s.base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (s *StoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) insertClaim(text string, offset time.Duration) model.Claim {
	claim := model.Claim{Text: text, RawID: "raw-1", ExtractedAt: s.base.Add(offset)}
	created, err := s.store.InsertClaim(s.ctx, &claim)
	s.Require().NoError(err)
	s.Require().True(created)
	return claim
}

// TestClaims verifies claim insertion, lookup and status write-back.
func (s *StoreSuite) TestClaims() {
	s.Run("assigns defaults on insert", func() {
		claim := model.Claim{Text: "Vaccines cause autism in children"}
		created, err := s.store.InsertClaim(s.ctx, &claim)
		s.Require().NoError(err)
		s.True(created)
		s.NotEmpty(claim.ID)
		s.Equal(model.VerdictUnverified, claim.Status)
		s.False(claim.ExtractedAt.IsZero())

		found, err := s.store.GetClaim(s.ctx, claim.ID)
		s.Require().NoError(err)
		s.Equal(claim.Text, found.Text)
		s.Equal(claim.Status, found.Status)
		s.True(claim.ExtractedAt.Equal(found.ExtractedAt))
	})

	s.Run("ignores duplicate text", func() {
		claim := model.Claim{Text: "Vaccines cause autism in children"}
		created, err := s.store.InsertClaim(s.ctx, &claim)
		s.Require().NoError(err)
		s.False(created)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.GetClaim(s.ctx, "missing")
		s.Require().ErrorIs(err, ErrNotFound)

		err = s.store.UpdateStatus(s.ctx, "missing", model.VerdictFalse)
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("rejects invalid status", func() {
		claim := s.insertClaim("A study proved coffee prevents cancer", 0)
		s.Error(s.store.UpdateStatus(s.ctx, claim.ID, "maybe"))
	})
}

// TestFindByStatus verifies filtering, ordering and limits.
func (s *StoreSuite) TestFindByStatus() {
	oldest := s.insertClaim("oldest claim text here", time.Minute)
	middle := s.insertClaim("middle claim text here", 2*time.Minute)
	newest := s.insertClaim("newest claim text here", 3*time.Minute)

	s.Require().NoError(s.store.UpdateStatus(s.ctx, middle.ID, model.VerdictFalse))

	pending, err := s.store.FindByStatus(s.ctx, model.VerdictUnverified, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Equal(newest.ID, pending[0].ID)
	s.Equal(oldest.ID, pending[1].ID)

	limited, err := s.store.FindByStatus(s.ctx, model.VerdictUnverified, 1)
	s.Require().NoError(err)
	s.Require().Len(limited, 1)
	s.Equal(newest.ID, limited[0].ID)

	falseClaims, err := s.store.FindByStatus(s.ctx, model.VerdictFalse, 10)
	s.Require().NoError(err)
	s.Require().Len(falseClaims, 1)
	s.Equal(middle.ID, falseClaims[0].ID)

	all, err := s.store.ListClaims(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(all, 3)
}

// TestVerifications verifies result persistence round-trips.
func (s *StoreSuite) TestVerifications() {
	claim := s.insertClaim("Elon Musk is an alien from Mars", 0)

	first := model.VerificationResult{
		ClaimID: claim.ID,
		Claim:   claim.Text,
		Verdict: model.VerdictFalse,
		Score:   0.95,
		Evidence: []model.EvidenceItem{
			{Title: "Elon Musk", Snippet: "businessman", Link: "https://en.wikipedia.org/wiki/Elon_Musk", Source: "en.wikipedia.org"},
		},
		Queries:   []string{"q1", "q2"},
		Reasons:   []string{"no biological evidence"},
		Summary:   "no biological evidence",
		Method:    model.MethodModel,
		CheckedAt: s.base,
	}
	s.Require().NoError(s.store.InsertVerification(s.ctx, &first))
	s.NotEmpty(first.ID)

	second := model.VerificationResult{
		Claim:     "ad hoc claim",
		Verdict:   model.VerdictUnverified,
		Summary:   "Verification unavailable: context canceled",
		Method:    model.MethodUnavailable,
		CheckedAt: s.base.Add(time.Hour),
	}
	s.Require().NoError(s.store.InsertVerification(s.ctx, &second))
	s.NotEqual(first.ID, second.ID)

	s.Run("lists newest first", func() {
		results, err := s.store.ListVerifications(s.ctx, 10)
		s.Require().NoError(err)
		s.Require().Len(results, 2)
		s.Equal(second.ID, results[0].ID)
		s.Equal(first.ID, results[1].ID)
	})

	s.Run("round-trips every field", func() {
		results, err := s.store.VerificationsForClaim(s.ctx, claim.ID)
		s.Require().NoError(err)
		s.Require().Len(results, 1)

		got := results[0]
		s.Equal(first.Verdict, got.Verdict)
		s.InDelta(first.Score, got.Score, 1e-9)
		s.Equal(first.Evidence, got.Evidence)
		s.Equal(first.Queries, got.Queries)
		s.Equal(first.Reasons, got.Reasons)
		s.Equal(first.Method, got.Method)
		s.True(first.CheckedAt.Equal(got.CheckedAt))
	})

	s.Run("stores empty lists for nil slices", func() {
		results, err := s.store.ListVerifications(s.ctx, 1)
		s.Require().NoError(err)
		s.Require().Len(results, 1)
		s.NotNil(results[0].Evidence)
		s.Empty(results[0].Evidence)
	})
}
