package lexstat

import (
	"context"
	"fmt"

	"github.com/cognicore/lexstat/pkg/lexstat/analytics"
	"github.com/cognicore/lexstat/pkg/lexstat/report"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
)

// ListRuns returns up to limit stored runs, newest first. limit <= 0 lists all.
func ListRuns(ctx context.Context, st store.Store, limit int) ([]report.RunSummary, error) {
	runs, err := st.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	out := make([]report.RunSummary, len(runs))
	for i, r := range runs {
		out[i] = runSummary(r)
	}
	return out, nil
}

// LoadRun reads a stored run with its top n lemmas, each annotated with up
// to k heaviest graph neighbors. n <= 0 loads every lemma; k <= 0 skips
// neighbors.
func LoadRun(ctx context.Context, st store.Store, id string, n, k int) (report.StoredRun, error) {
	r, err := st.GetRun(ctx, id)
	if err != nil {
		return report.StoredRun{}, fmt.Errorf("load run: %w", err)
	}
	rows, err := st.GetLemmas(ctx, id, n)
	if err != nil {
		return report.StoredRun{}, fmt.Errorf("load lemmas of run %s: %w", id, err)
	}

	out := report.StoredRun{Run: runSummary(r), Lemmas: make([]report.StoredLemma, len(rows))}
	for i, row := range rows {
		l := report.StoredLemma{
			Rank:   row.Rank,
			Lemma:  row.Lemma,
			POS:    row.POS,
			Count:  row.Count,
			Zipf:   row.Zipf,
			Degree: row.Degree,
		}
		if k > 0 && row.Degree > 0 {
			nbs, err := st.TopNeighbors(ctx, id, row.Lemma, k)
			if err != nil {
				return report.StoredRun{}, fmt.Errorf("load neighbors of %q: %w", row.Lemma, err)
			}
			for _, nb := range nbs {
				l.Neighbors = append(l.Neighbors, report.NeighborRow{Lemma: nb.Lemma, Weight: nb.Weight, PMI: nb.PMI})
			}
		}
		out.Lemmas[i] = l
	}
	return out, nil
}

func runSummary(r store.Run) report.RunSummary {
	cov := analytics.Coverage{TotalTokens: r.TotalTokens, Fraction: r.Fraction}
	return report.RunSummary{
		ID:             r.ID,
		CreatedAt:      r.CreatedAt,
		Corpus:         r.Corpus,
		Documents:      r.Documents,
		TotalTokens:    r.TotalTokens,
		DistinctLemmas: r.DistinctLemmas,
		GraphK:         r.GraphK,
		Nodes:          r.Nodes,
		Edges:          r.Edges,
		Coverage: report.CoverageRow{
			CoreSize:    r.CoreSize,
			TotalTokens: r.TotalTokens,
			Cumulative:  r.Cumulative,
			Fraction:    r.Fraction,
			Reached:     r.TotalTokens > 0 && r.Cumulative >= cov.Target(),
		},
	}
}
