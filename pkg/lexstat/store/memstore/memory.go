package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu           sync.RWMutex
	runs         map[string]store.Run
	order        []string
	lemmas       map[string][]store.LemmaRow
	edges        map[string][]store.EdgeRow
	translations map[string]store.Translation
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs:         make(map[string]store.Run),
		lemmas:       make(map[string][]store.LemmaRow),
		edges:        make(map[string][]store.EdgeRow),
		translations: make(map[string]store.Translation),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun inserts or replaces a run, keyed by ID.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: %w: empty id", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.runs[r.ID] = r
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, nil
}

// ListRuns returns runs newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Run, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.runs[s.order[i]])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// SaveLemmas replaces the ranked lemmas of a run.
func (s *Store) SaveLemmas(ctx context.Context, runID string, rows []store.LemmaRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("save lemmas for run %s: %w", runID, internalerr.ErrNotFound)
	}
	s.lemmas[runID] = append([]store.LemmaRow(nil), rows...)
	return nil
}

// GetLemmas returns ranked lemmas of a run in rank order.
func (s *Store) GetLemmas(ctx context.Context, runID string, limit int) ([]store.LemmaRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := append([]store.LemmaRow(nil), s.lemmas[runID]...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// SaveEdges replaces the graph edges of a run.
func (s *Store) SaveEdges(ctx context.Context, runID string, edges []store.EdgeRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("save edges for run %s: %w", runID, internalerr.ErrNotFound)
	}
	kept := make([]store.EdgeRow, 0, len(edges))
	for _, e := range edges {
		if e.A != e.B {
			kept = append(kept, e)
		}
	}
	s.edges[runID] = kept
	return nil
}

// TopNeighbors returns the heaviest edges touching lemma.
func (s *Store) TopNeighbors(ctx context.Context, runID, lemma string, k int) ([]store.Neighbor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Neighbor
	for _, e := range s.edges[runID] {
		switch lemma {
		case e.A:
			out = append(out, store.Neighbor{Lemma: e.B, Weight: e.Weight, PMI: e.PMI})
		case e.B:
			out = append(out, store.Neighbor{Lemma: e.A, Weight: e.Weight, PMI: e.PMI})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Lemma < out[j].Lemma
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// GetTranslation returns a cached translation.
func (s *Store) GetTranslation(ctx context.Context, lemma string) (store.Translation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.translations[lemma]
	if !ok {
		return store.Translation{}, false, nil
	}
	t.Glosses = append([]string(nil), t.Glosses...)
	return t, true, nil
}

// UpsertTranslation stores a translation.
func (s *Store) UpsertTranslation(ctx context.Context, t store.Translation) error {
	if t.Lemma == "" {
		return fmt.Errorf("upsert translation: %w: empty lemma", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t.Glosses = append([]string(nil), t.Glosses...)
	s.translations[t.Lemma] = t
	return nil
}
