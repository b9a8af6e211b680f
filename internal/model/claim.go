package model

import (
	"fmt"
	"strings"
	"time"
)

// Claim represents a factual assertion awaiting (or holding) a verdict
type Claim struct {
	ID          string    `json:"id" yaml:"id"`
	RawID       string    `json:"raw_id,omitempty" yaml:"raw_id,omitempty"` // Source item the claim was extracted from
	Text        string    `json:"text" yaml:"text"`
	Status      Verdict   `json:"status" yaml:"status"`
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}

// Verdict is the outcome of verifying a claim
type Verdict string

const (
	VerdictUnverified Verdict = "unverified"
	VerdictTrue       Verdict = "true"
	VerdictFalse      Verdict = "false"
	VerdictMixture    Verdict = "mixture"
)

// Valid reports whether v is one of the four known verdicts
func (v Verdict) Valid() bool {
	switch v {
	case VerdictUnverified, VerdictTrue, VerdictFalse, VerdictMixture:
		return true
	}
	return false
}

// ParseVerdict converts free-form model output ("FALSE", " Mixture ") to a Verdict
func ParseVerdict(s string) (Verdict, error) {
	v := Verdict(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown verdict %q", s)
	}
	return v, nil
}
