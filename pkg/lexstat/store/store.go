package store

import (
	"context"
	"time"
)

// Store persists analysis runs and the translation cache.
type Store interface {
	Close() error

	// Runs
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Results of a run
	SaveLemmas(ctx context.Context, runID string, rows []LemmaRow) error
	GetLemmas(ctx context.Context, runID string, limit int) ([]LemmaRow, error)
	SaveEdges(ctx context.Context, runID string, edges []EdgeRow) error
	TopNeighbors(ctx context.Context, runID, lemma string, k int) ([]Neighbor, error)

	// Translation cache, shared across runs
	GetTranslation(ctx context.Context, lemma string) (Translation, bool, error)
	UpsertTranslation(ctx context.Context, t Translation) error
}

// Run summarizes one analysis.
type Run struct {
	ID             string
	CreatedAt      time.Time
	Corpus         string
	Documents      int
	TotalTokens    int64
	DistinctLemmas int
	GraphK         int
	Nodes          int
	Edges          int
	CoreSize       int
	Cumulative     int64
	Fraction       float64
}

// LemmaRow is one ranked lemma. Degree is its weighted degree in the run's
// top-K graph, 0 when the lemma is not a node.
type LemmaRow struct {
	Lemma  string
	POS    string
	Count  int64
	Rank   int
	Zipf   int64
	Degree int64
}

// EdgeRow is one graph edge. A ranks above B.
type EdgeRow struct {
	A      string
	B      string
	Weight int64
	PMI    float64
}

// Neighbor is a lemma adjacent to another in a run's graph.
type Neighbor struct {
	Lemma  string
	Weight int64
	PMI    float64
}

// Translation is a cached lookup result. Found is false for lemmas the
// service did not know; those are cached too.
type Translation struct {
	Lemma     string
	Glosses   []string
	Found     bool
	FetchedAt time.Time
}
