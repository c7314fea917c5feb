// Package analytics ranks graph nodes by weighted degree and measures how much
// of the corpus the most connected lemmas cover.
package analytics

import (
	"math"
	"sort"

	"github.com/cognicore/lexstat/pkg/lexstat/freq"
	"github.com/cognicore/lexstat/pkg/lexstat/graph"
	"github.com/cognicore/lexstat/pkg/lexstat/rank"
)

// DefaultCoverageFraction is the share of corpus tokens the core vocabulary must cover.
const DefaultCoverageFraction = 0.9

// Centrality is one row of the weighted-degree ranking.
type Centrality struct {
	Lemma  string
	POS    string
	Count  int64 // occurrences in the corpus
	Degree int64 // sum of incident edge weights
	Rank   int   // 1-based position by degree
}

// CentralityRanking sorts the nodes of g by descending weighted degree.
// Equal degrees keep node order, i.e. frequency rank order.
func CentralityRanking(g *graph.Graph) []Centrality {
	nodes := g.Nodes()
	degrees := g.Degrees()

	out := make([]Centrality, len(nodes))
	for i, n := range nodes {
		out[i] = Centrality{Lemma: n.Lemma, POS: n.POS, Count: n.Count, Degree: degrees[i]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Degree > out[j].Degree
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// TopN returns the first n rows, or all rows when n <= 0 or exceeds the length.
func TopN(ranking []Centrality, n int) []Centrality {
	if n <= 0 || n > len(ranking) {
		return ranking
	}
	return ranking[:n]
}

// TopByPOS walks ranking in order and keeps rows whose tag satisfies match,
// stopping after m matches. Fewer than m matches returns what exists.
// m <= 0 keeps every match.
func TopByPOS(ranking []Centrality, m int, match func(pos string) bool) []Centrality {
	var out []Centrality
	for _, c := range ranking {
		if m > 0 && len(out) >= m {
			break
		}
		if match(c.POS) {
			out = append(out, c)
		}
	}
	return out
}

// ExactPOS matches a tag by string equality.
func ExactPOS(tag string) func(string) bool {
	return func(pos string) bool { return pos == tag }
}

// Coverage is the core-vocabulary measurement.
type Coverage struct {
	CoreSize    int     // prefix length of the degree ranking
	TotalTokens int64   // corpus size
	Cumulative  int64   // occurrences covered by the prefix
	Fraction    float64 // target share of TotalTokens
	Reached     bool    // false only when the target exceeds the corpus
}

// Target returns the number of tokens the prefix has to reach.
func (c Coverage) Target() int64 {
	return coverageTarget(c.Fraction, c.TotalTokens)
}

// Share returns Cumulative as a fraction of TotalTokens.
func (c Coverage) Share() float64 {
	if c.TotalTokens == 0 {
		return 0
	}
	return float64(c.Cumulative) / float64(c.TotalTokens)
}

// CoreVocabulary walks lemmas in descending weighted degree over the
// all-vocabulary graph and accumulates each lemma's occurrence count until the
// running sum first reaches fraction of all tokens.
//
// The walk order comes from graph centrality while the accumulated quantity is
// the raw occurrence count. The two are not interchangeable: walking in
// frequency order gives a different (smaller or equal) size.
func CoreVocabulary(table *freq.Table, fraction float64) Coverage {
	entries := rank.Rank(table.Records())
	full := graph.Build(entries, table, 0)
	return CoverageOf(CentralityRanking(full), table.Total(), fraction)
}

// CoverageOf walks an existing ranking. The ranking must span the whole
// vocabulary for the result to be meaningful.
func CoverageOf(ranking []Centrality, total int64, fraction float64) Coverage {
	cov := Coverage{TotalTokens: total, Fraction: fraction}
	if total == 0 {
		return cov
	}

	target := coverageTarget(fraction, total)
	for _, c := range ranking {
		if cov.Cumulative >= target {
			break
		}
		cov.Cumulative += c.Count
		cov.CoreSize++
	}
	cov.Reached = cov.Cumulative >= target
	return cov
}

// coverageTarget is the smallest token count that covers fraction of total.
// The tolerance absorbs float error, so 0.7 of 10 is 7 and not 8.
func coverageTarget(fraction float64, total int64) int64 {
	return int64(math.Ceil(fraction*float64(total) - 1e-9))
}
