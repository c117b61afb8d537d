package app

import (
	"errors"
	"net/http"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/gitrate/internal/gitrate"
	"github.com/spigell/gitrate/internal/profiles"
	"github.com/spigell/gitrate/internal/ranking"
	"github.com/spigell/gitrate/internal/storage"
)

type stubRater struct {
	mu      sync.Mutex
	ratings map[string]*gitrate.Rating
	err     error
	// gates holds a channel per username; RateDeveloper blocks until it is closed.
	gates   map[string]chan struct{}
	started chan string
}

func (s *stubRater) RateDeveloper(username string) (*gitrate.Rating, error) {
	s.mu.Lock()
	gate := s.gates[username]
	started := s.started
	s.mu.Unlock()

	if started != nil {
		started <- username
	}
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.ratings[username]
	if !ok {
		return nil, &gitrate.RemoteError{Status: http.StatusNotFound}
	}
	out := r.Clone()
	return &out, nil
}

func newController(rater Rater, opts ...Option) (*Controller, *profiles.Store) {
	store := profiles.New(storage.NewMemoryStore())
	return New(rater, store, zap.NewNop(), opts...), store
}

func TestSearchSavesResult(t *testing.T) {
	rater := &stubRater{ratings: map[string]*gitrate.Rating{
		"alice": {Username: "alice", FinalScore: 80, Tier: gitrate.TierAdvanced},
	}}
	c, store := newController(rater)

	view, err := c.Search("  alice ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.Loading || view.Error != "" {
		t.Fatalf("unexpected view state: %+v", view)
	}
	if view.Current == nil || view.Current.Username != "alice" {
		t.Fatalf("expected current rating for alice, got %+v", view.Current)
	}
	if !store.IsSaved("alice") {
		t.Fatalf("expected alice to be saved")
	}
	if len(view.Saved) != 1 {
		t.Fatalf("expected one saved profile in view, got %d", len(view.Saved))
	}
}

func TestSearchWithoutAutoSave(t *testing.T) {
	rater := &stubRater{ratings: map[string]*gitrate.Rating{"alice": {Username: "alice"}}}
	c, store := newController(rater, WithAutoSave(false))

	if _, err := c.Search("alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.IsSaved("alice") {
		t.Fatalf("expected no save with auto save disabled")
	}

	if !c.SaveCurrent() || !store.IsSaved("alice") {
		t.Fatalf("expected SaveCurrent to store the last result")
	}
}

func TestSearchErrors(t *testing.T) {
	c, _ := newController(&stubRater{})

	view, err := c.Search("ghost")
	var remoteErr *gitrate.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected wrapped RemoteError, got %v", err)
	}
	if view.Error != "GitHub user not found." || view.Current != nil || view.Loading {
		t.Fatalf("unexpected view: %+v", view)
	}

	view, err = c.Search("   ")
	if !errors.Is(err, gitrate.ErrEmptyUsername) {
		t.Fatalf("expected ErrEmptyUsername, got %v", err)
	}
	if view.Error == "" {
		t.Fatalf("expected a user facing error for empty input")
	}

	if c.SaveCurrent() {
		t.Fatalf("nothing to save after failed searches")
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	slowGate := make(chan struct{})
	rater := &stubRater{
		ratings: map[string]*gitrate.Rating{
			"slow": {Username: "slow", FinalScore: 10},
			"fast": {Username: "fast", FinalScore: 90},
		},
		gates:   map[string]chan struct{}{"slow": slowGate},
		started: make(chan string, 2),
	}
	c, store := newController(rater)

	type result struct {
		view View
		err  error
	}
	slowDone := make(chan result, 1)
	go func() {
		view, err := c.Search("slow")
		slowDone <- result{view, err}
	}()

	// Wait until the slow request is in flight before starting the newer one.
	if got := <-rater.started; got != "slow" {
		t.Fatalf("expected slow to start first, got %s", got)
	}

	view, err := c.Search("fast")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Current == nil || view.Current.Username != "fast" {
		t.Fatalf("expected fast result, got %+v", view.Current)
	}
	<-rater.started

	close(slowGate)
	slow := <-slowDone

	if !errors.Is(slow.err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", slow.err)
	}

	final := c.View()
	if final.Current == nil || final.Current.Username != "fast" {
		t.Fatalf("stale response overwrote the view: %+v", final.Current)
	}
	if store.IsSaved("slow") {
		t.Fatalf("stale response must not be saved")
	}
}

func TestSelectTab(t *testing.T) {
	rater := &stubRater{ratings: map[string]*gitrate.Rating{
		"a": {Username: "a", FinalScore: 50},
		"b": {Username: "b", FinalScore: 70},
	}}
	c, store := newController(rater)

	if err := c.SelectTab(TabCompare); !errors.Is(err, ErrCompareUnavailable) {
		t.Fatalf("expected ErrCompareUnavailable, got %v", err)
	}
	if c.View().Tab != TabSearch {
		t.Fatalf("tab must not change on a refused transition")
	}

	if _, err := c.Compare(); err == nil {
		t.Fatalf("expected comparison error with no saved profiles")
	}

	c.Search("a")
	c.Search("b")

	if err := c.SelectTab(TabCompare); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.View().Tab != TabCompare {
		t.Fatalf("expected compare tab")
	}

	entries, err := c.Compare()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries[0].Rating.Username != "b" {
		t.Fatalf("expected b to lead, got %+v", entries[0])
	}

	store.Remove("a")
	if c.View().Tab != TabSaved {
		t.Fatalf("expected compare tab to fall back once fewer than two profiles remain")
	}

	var cmpErr *ranking.ComparisonError
	if _, err := c.Compare(); !errors.As(err, &cmpErr) {
		t.Fatalf("expected ComparisonError, got %v", err)
	}
}

func TestRemoveAndClearSaved(t *testing.T) {
	rater := &stubRater{ratings: map[string]*gitrate.Rating{
		"a": {Username: "a", FinalScore: 50},
		"b": {Username: "b", FinalScore: 70},
	}}
	c, store := newController(rater)

	for _, username := range []string{"a", "b"} {
		if _, err := c.Search(username); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if !c.RemoveSaved("a") || store.IsSaved("a") {
		t.Fatalf("expected a to be removed")
	}
	if !c.ClearSaved() || len(c.View().Saved) != 0 {
		t.Fatalf("expected no saved profiles after clear")
	}
}
