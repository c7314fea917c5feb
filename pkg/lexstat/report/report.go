// Package report assembles analysis results into a fixed-order report and
// writes it to a sink as text, JSON or YAML.
package report

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/lexstat/pkg/lexstat/analytics"
	"github.com/cognicore/lexstat/pkg/lexstat/rank"
)

// Report is the rendered result of one run. Sections are emitted in field
// order: totals, frequency ranking, centrality, target-POS centrality,
// coverage.
type Report struct {
	ID             string    `json:"id" yaml:"id"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	Corpus         string    `json:"corpus,omitempty" yaml:"corpus,omitempty"`
	Documents      int       `json:"documents" yaml:"documents"`
	TotalTokens    int64     `json:"total_tokens" yaml:"total_tokens"`
	DistinctLemmas int       `json:"distinct_lemmas" yaml:"distinct_lemmas"`

	Ranking          []RankRow       `json:"ranking" yaml:"ranking"`
	Centrality       []CentralityRow `json:"centrality" yaml:"centrality"`
	TargetPOS        string          `json:"target_pos" yaml:"target_pos"`
	TargetCentrality []CentralityRow `json:"target_centrality" yaml:"target_centrality"`
	Coverage         CoverageRow     `json:"coverage" yaml:"coverage"`
}

// RankRow is one line of the frequency ranking.
type RankRow struct {
	Rank        int    `json:"rank" yaml:"rank"`
	Lemma       string `json:"lemma" yaml:"lemma"`
	POS         string `json:"pos,omitempty" yaml:"pos,omitempty"`
	Count       int64  `json:"count" yaml:"count"`
	Zipf        int64  `json:"zipf" yaml:"zipf"`
	Translation string `json:"translation,omitempty" yaml:"translation,omitempty"`
}

// CentralityRow is one line of a weighted-degree ranking.
type CentralityRow struct {
	Position int    `json:"position" yaml:"position"`
	Lemma    string `json:"lemma" yaml:"lemma"`
	POS      string `json:"pos,omitempty" yaml:"pos,omitempty"`
	Degree   int64  `json:"degree" yaml:"degree"`
	Count    int64  `json:"count" yaml:"count"`
}

// CoverageRow states the core-vocabulary measurement.
type CoverageRow struct {
	CoreSize    int     `json:"core_size" yaml:"core_size"`
	TotalTokens int64   `json:"total_tokens" yaml:"total_tokens"`
	Cumulative  int64   `json:"cumulative" yaml:"cumulative"`
	Fraction    float64 `json:"fraction" yaml:"fraction"`
	Reached     bool    `json:"reached" yaml:"reached"`
}

// Input carries everything a report is built from.
type Input struct {
	Corpus         string
	Documents      int
	TotalTokens    int64
	DistinctLemmas int

	Ranking          []rank.Entry
	Centrality       []analytics.Centrality
	TargetPOS        string
	TargetCentrality []analytics.Centrality
	Coverage         analytics.Coverage

	// Translate returns the gloss text for a lemma, "" when absent. Optional.
	Translate func(lemma string) string
}

// Builder constructs reports with unique, time-ordered IDs.
type Builder struct {
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewBuilder creates a new report builder.
func NewBuilder() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Build assembles a Report from in.
func (b *Builder) Build(in Input) Report {
	now := b.now().UTC()
	r := Report{
		ID:               ulid.MustNew(ulid.Timestamp(now), b.entropy).String(),
		CreatedAt:        now,
		Corpus:           in.Corpus,
		Documents:        in.Documents,
		TotalTokens:      in.TotalTokens,
		DistinctLemmas:   in.DistinctLemmas,
		Ranking:          make([]RankRow, 0, len(in.Ranking)),
		Centrality:       centralityRows(in.Centrality),
		TargetPOS:        in.TargetPOS,
		TargetCentrality: centralityRows(in.TargetCentrality),
		Coverage: CoverageRow{
			CoreSize:    in.Coverage.CoreSize,
			TotalTokens: in.Coverage.TotalTokens,
			Cumulative:  in.Coverage.Cumulative,
			Fraction:    in.Coverage.Fraction,
			Reached:     in.Coverage.Reached,
		},
	}

	for _, e := range in.Ranking {
		row := RankRow{
			Rank:  e.Rank,
			Lemma: e.Lemma,
			POS:   e.POS,
			Count: e.Count,
			Zipf:  e.Zipf,
		}
		if in.Translate != nil {
			row.Translation = in.Translate(e.Lemma)
		}
		r.Ranking = append(r.Ranking, row)
	}
	return r
}

func centralityRows(in []analytics.Centrality) []CentralityRow {
	out := make([]CentralityRow, 0, len(in))
	for i, c := range in {
		out = append(out, CentralityRow{
			Position: i + 1,
			Lemma:    c.Lemma,
			POS:      c.POS,
			Degree:   c.Degree,
			Count:    c.Count,
		})
	}
	return out
}
