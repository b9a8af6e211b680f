package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

// stubVerifier returns a fixed verdict per claim text
type stubVerifier struct {
	mu       sync.Mutex
	verdicts map[string]model.Verdict
	calls    []string
	active   int
	maxSeen  int
}

func (v *stubVerifier) Verify(ctx context.Context, text string) model.VerificationResult {
	v.mu.Lock()
	v.calls = append(v.calls, text)
	v.active++
	if v.active > v.maxSeen {
		v.maxSeen = v.active
	}
	v.mu.Unlock()

	time.Sleep(time.Millisecond)

	v.mu.Lock()
	v.active--
	v.mu.Unlock()

	verdict, ok := v.verdicts[text]
	if !ok {
		verdict = model.VerdictUnverified
	}
	return model.VerificationResult{
		Claim:   text,
		Verdict: verdict,
		Score:   0.5,
		Summary: "stub",
		Method:  model.MethodHeuristic,
	}
}

// memoryStore is an in-memory ClaimStore + VerificationStore
type memoryStore struct {
	claims     []model.Claim
	statuses   map[string]model.Verdict
	inserted   []model.VerificationResult
	findErr    error
	insertFail map[string]bool
	lastLimit  int
}

func (s *memoryStore) FindByStatus(ctx context.Context, status model.Verdict, limit int) ([]model.Claim, error) {
	s.lastLimit = limit
	if s.findErr != nil {
		return nil, s.findErr
	}
	var out []model.Claim
	for _, c := range s.claims {
		if s.statuses[c.ID] == status && len(out) < limit {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memoryStore) UpdateStatus(ctx context.Context, id string, status model.Verdict) error {
	s.statuses[id] = status
	return nil
}

func (s *memoryStore) InsertVerification(ctx context.Context, result *model.VerificationResult) error {
	if s.insertFail[result.ClaimID] {
		return errors.New("disk full")
	}
	result.ID = "v-" + result.ClaimID
	s.inserted = append(s.inserted, *result)
	return nil
}

func newMemoryStore(texts ...string) *memoryStore {
	s := &memoryStore{statuses: map[string]model.Verdict{}, insertFail: map[string]bool{}}
	for i, text := range texts {
		id := string(rune('a' + i))
		s.claims = append(s.claims, model.Claim{ID: id, Text: text, Status: model.VerdictUnverified})
		s.statuses[id] = model.VerdictUnverified
	}
	return s
}

func TestBatchRunner_RunBatch(t *testing.T) {
	store := newMemoryStore("claim one", "claim two", "claim three")
	verifier := &stubVerifier{verdicts: map[string]model.Verdict{
		"claim one": model.VerdictFalse,
		"claim two": model.VerdictMixture,
	}}

	runner := NewBatchRunner(verifier, store, store, nil)
	results, err := runner.RunBatch(context.Background(), 50)
	if err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if store.lastLimit != 50 {
		t.Errorf("expected limit 50 passed to store, got %d", store.lastLimit)
	}
	if results[0].ClaimID != "a" || results[0].ID != "v-a" {
		t.Errorf("expected first result bound to claim a with stored ID, got %+v", results[0])
	}
	if store.statuses["a"] != model.VerdictFalse || store.statuses["b"] != model.VerdictMixture {
		t.Errorf("expected verdicts written back, got %v", store.statuses)
	}
	if store.statuses["c"] != model.VerdictUnverified {
		t.Errorf("expected claim c to stay unverified, got %s", store.statuses["c"])
	}
	if len(store.inserted) != 3 {
		t.Errorf("expected 3 persisted results, got %d", len(store.inserted))
	}
}

func TestBatchRunner_Sequential(t *testing.T) {
	store := newMemoryStore("a1", "a2", "a3", "a4")
	verifier := &stubVerifier{}

	if _, err := NewBatchRunner(verifier, store, store, nil).RunBatch(context.Background(), 10); err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}
	if verifier.maxSeen != 1 {
		t.Errorf("expected strictly sequential verification, saw %d concurrent", verifier.maxSeen)
	}
	want := []string{"a1", "a2", "a3", "a4"}
	for i, text := range want {
		if verifier.calls[i] != text {
			t.Errorf("call %d: expected %s, got %s", i, text, verifier.calls[i])
		}
	}
}

func TestBatchRunner_PersistFailureContinues(t *testing.T) {
	store := newMemoryStore("first", "second")
	store.insertFail["a"] = true
	verifier := &stubVerifier{verdicts: map[string]model.Verdict{
		"first":  model.VerdictFalse,
		"second": model.VerdictFalse,
	}}

	results, err := NewBatchRunner(verifier, store, store, nil).RunBatch(context.Background(), 10)
	if err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}
	if len(results) != 1 || results[0].ClaimID != "b" {
		t.Fatalf("expected only claim b in results, got %+v", results)
	}
	if store.statuses["a"] != model.VerdictUnverified {
		t.Errorf("expected claim a left unverified for retry, got %s", store.statuses["a"])
	}
	if store.statuses["b"] != model.VerdictFalse {
		t.Errorf("expected claim b updated, got %s", store.statuses["b"])
	}
}

func TestBatchRunner_FindError(t *testing.T) {
	store := newMemoryStore()
	store.findErr = errors.New("database locked")

	_, err := NewBatchRunner(&stubVerifier{}, store, store, nil).RunBatch(context.Background(), 10)
	if err == nil {
		t.Fatal("expected error when claims cannot be read")
	}
}

func TestBatchRunner_CancelledContext(t *testing.T) {
	store := newMemoryStore("x", "y")
	verifier := &stubVerifier{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := NewBatchRunner(verifier, store, store, nil).RunBatch(ctx, 10)
	if err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}
	if len(results) != 0 || len(verifier.calls) != 0 {
		t.Errorf("expected no work after cancellation, got %d results", len(results))
	}
}

func TestBatchRunner_RunEvery(t *testing.T) {
	store := newMemoryStore("periodic")
	verifier := &stubVerifier{verdicts: map[string]model.Verdict{"periodic": model.VerdictFalse}}
	runner := NewBatchRunner(verifier, store, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	var batches int
	err := runner.RunEvery(ctx, 10*time.Millisecond, 5, func(results []model.VerificationResult, err error) {
		batches++
		if batches == 2 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("RunEvery failed: %v", err)
	}
	if batches != 2 {
		t.Errorf("expected 2 batches, got %d", batches)
	}
	// The claim is verified once; the second batch finds nothing pending
	if len(verifier.calls) != 1 {
		t.Errorf("expected 1 verification, got %d", len(verifier.calls))
	}

	if err := runner.RunEvery(context.Background(), 0, 5, nil); err == nil {
		t.Error("expected error for non-positive interval")
	}
}
