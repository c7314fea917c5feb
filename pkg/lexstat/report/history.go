package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
)

// RunSummary is one persisted run as listed by history commands.
type RunSummary struct {
	ID             string      `json:"id" yaml:"id"`
	CreatedAt      time.Time   `json:"created_at" yaml:"created_at"`
	Corpus         string      `json:"corpus,omitempty" yaml:"corpus,omitempty"`
	Documents      int         `json:"documents" yaml:"documents"`
	TotalTokens    int64       `json:"total_tokens" yaml:"total_tokens"`
	DistinctLemmas int         `json:"distinct_lemmas" yaml:"distinct_lemmas"`
	GraphK         int         `json:"graph_k" yaml:"graph_k"`
	Nodes          int         `json:"nodes" yaml:"nodes"`
	Edges          int         `json:"edges" yaml:"edges"`
	Coverage       CoverageRow `json:"coverage" yaml:"coverage"`
}

// StoredRun is a persisted run with its leading lemmas.
type StoredRun struct {
	Run    RunSummary    `json:"run" yaml:"run"`
	Lemmas []StoredLemma `json:"lemmas" yaml:"lemmas"`
}

// StoredLemma is a ranked lemma of a stored run with its heaviest neighbors.
type StoredLemma struct {
	Rank      int           `json:"rank" yaml:"rank"`
	Lemma     string        `json:"lemma" yaml:"lemma"`
	POS       string        `json:"pos,omitempty" yaml:"pos,omitempty"`
	Count     int64         `json:"count" yaml:"count"`
	Zipf      int64         `json:"zipf" yaml:"zipf"`
	Degree    int64         `json:"degree" yaml:"degree"`
	Neighbors []NeighborRow `json:"neighbors,omitempty" yaml:"neighbors,omitempty"`
}

// NeighborRow is one adjacency of a stored lemma.
type NeighborRow struct {
	Lemma  string  `json:"lemma" yaml:"lemma"`
	Weight int64   `json:"weight" yaml:"weight"`
	PMI    float64 `json:"pmi" yaml:"pmi"`
}

// RenderRuns writes a run listing in the named format.
func RenderRuns(w io.Writer, runs []RunSummary, format string) error {
	if runs == nil {
		runs = []RunSummary{}
	}
	if handled, err := encodeStructured(w, runs, format); handled {
		return err
	}

	bw := bufio.NewWriter(w)
	if len(runs) == 0 {
		fmt.Fprintln(bw, "No stored runs.")
	}
	for _, r := range runs {
		fmt.Fprintf(bw, "%s  %s  %s: %d tokens, %d lemmas, core %d\n",
			r.ID, r.CreatedAt.UTC().Format(time.RFC3339), corpusLabel(r.Corpus),
			r.TotalTokens, r.DistinctLemmas, r.Coverage.CoreSize)
	}
	return bw.Flush()
}

// RenderStoredRun writes one stored run in the named format.
func RenderStoredRun(w io.Writer, s StoredRun, format string) error {
	if s.Lemmas == nil {
		s.Lemmas = []StoredLemma{}
	}
	if handled, err := encodeStructured(w, s, format); handled {
		return err
	}

	bw := bufio.NewWriter(w)
	r := s.Run
	fmt.Fprintf(bw, "Run %s (%s)\n", r.ID, r.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(bw, "Corpus: %s, %d documents\n", corpusLabel(r.Corpus), r.Documents)
	fmt.Fprintf(bw, "Total tokens: %d\n", r.TotalTokens)
	fmt.Fprintf(bw, "Graph: %d nodes, %d edges (k=%d)\n", r.Nodes, r.Edges, r.GraphK)
	fmt.Fprintf(bw, "Core vocabulary: %d lemmas cover %d of %d tokens (%.1f%% target)\n",
		r.Coverage.CoreSize, r.Coverage.Cumulative, r.TotalTokens, r.Coverage.Fraction*100)

	fmt.Fprintf(bw, "\nTop %d by count:\n\n", len(s.Lemmas))
	for _, l := range s.Lemmas {
		fmt.Fprintf(bw, "%s: %d (rank: %d, product: %d, degree: %d)\n", l.Lemma, l.Count, l.Rank, l.Zipf, l.Degree)
		if len(l.Neighbors) > 0 {
			parts := make([]string, len(l.Neighbors))
			for i, n := range l.Neighbors {
				parts[i] = fmt.Sprintf("%s (%d)", n.Lemma, n.Weight)
			}
			fmt.Fprintf(bw, "    next to: %s\n", strings.Join(parts, ", "))
		}
	}
	return bw.Flush()
}

// encodeStructured writes v as JSON or YAML. It reports false for text so
// the caller renders its own layout.
func encodeStructured(w io.Writer, v any, format string) (bool, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return false, nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return true, fmt.Errorf("report: %w: unknown format %q", internalerr.ErrInvalidInput, format)
	}
}

func corpusLabel(name string) string {
	if name == "" {
		return "unnamed corpus"
	}
	return name
}
