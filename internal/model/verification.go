package model

import "time"

// Method records which scorer produced a verdict
type Method string

const (
	MethodModel       Method = "model"
	MethodHeuristic   Method = "heuristic"
	MethodUnavailable Method = "unavailable"
)

// VerificationResult is the assembled outcome of one pipeline run.
// It is built in one step and never mutated afterwards.
type VerificationResult struct {
	ID        string         `json:"id,omitempty" yaml:"id,omitempty"` // Assigned by the verification store
	ClaimID   string         `json:"claim_id,omitempty" yaml:"claim_id,omitempty"`
	Claim     string         `json:"claim" yaml:"claim"`
	Verdict   Verdict        `json:"verdict" yaml:"verdict"`
	Score     float64        `json:"score" yaml:"score"`       // Always within [0,1]
	Evidence  []EvidenceItem `json:"evidence" yaml:"evidence"` // Credibility-filtered, for display
	Queries   []string       `json:"queries" yaml:"queries"`
	Reasons   []string       `json:"reasons" yaml:"reasons"`
	Summary   string         `json:"summary" yaml:"summary"`
	Method    Method         `json:"method" yaml:"method"`
	CheckedAt time.Time      `json:"checked_at" yaml:"checked_at"`
}

// ClampScore bounds a confidence value to [0,1]
func ClampScore(v float64) float64 {
	if v != v { // NaN
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
