package report

import (
	"bufio"
	"fmt"
	"io"
)

// Format names accepted by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Render writes r to w in the named format.
func Render(w io.Writer, r Report, format string) error {
	if handled, err := encodeStructured(w, r, format); handled {
		return err
	}
	return RenderText(w, r)
}

// RenderText writes the human-readable report.
func RenderText(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Total tokens: %d\n", r.TotalTokens)
	fmt.Fprintf(bw, "Distinct lemmas: %d (documents: %d)\n", r.DistinctLemmas, r.Documents)

	fmt.Fprintf(bw, "\nTop %d by count:\n\n", len(r.Ranking))
	for _, row := range r.Ranking {
		fmt.Fprintf(bw, "%s: %d (rank: %d, product: %d)", row.Lemma, row.Count, row.Rank, row.Zipf)
		if row.Translation != "" {
			fmt.Fprintf(bw, " - %s", row.Translation)
		}
		bw.WriteByte('\n')
	}

	fmt.Fprintf(bw, "\nTop %d by weighted degree:\n\n", len(r.Centrality))
	writeCentrality(bw, r.Centrality)

	fmt.Fprintf(bw, "\nTop %d %s by weighted degree:\n\n", len(r.TargetCentrality), posLabel(r.TargetPOS))
	writeCentrality(bw, r.TargetCentrality)

	c := r.Coverage
	bw.WriteByte('\n')
	if c.Reached {
		fmt.Fprintf(bw, "Core vocabulary: %d lemmas cover %d of %d tokens (%.1f%% target)\n",
			c.CoreSize, c.Cumulative, c.TotalTokens, c.Fraction*100)
	} else {
		fmt.Fprintf(bw, "Core vocabulary: target %.1f%% not reached; %d lemmas cover %d of %d tokens\n",
			c.Fraction*100, c.CoreSize, c.Cumulative, c.TotalTokens)
	}

	return bw.Flush()
}

func writeCentrality(w *bufio.Writer, rows []CentralityRow) {
	for _, row := range rows {
		if row.POS != "" {
			fmt.Fprintf(w, "%d. %s [%s]: degree %d (count: %d)\n", row.Position, row.Lemma, row.POS, row.Degree, row.Count)
		} else {
			fmt.Fprintf(w, "%d. %s: degree %d (count: %d)\n", row.Position, row.Lemma, row.Degree, row.Count)
		}
	}
}

func posLabel(pos string) string {
	if pos == "" {
		return "untagged"
	}
	return pos
}
