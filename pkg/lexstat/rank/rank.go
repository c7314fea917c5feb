// Package rank orders lemmas by occurrence count and annotates each entry
// with its Zipf product.
package rank

import (
	"sort"

	"github.com/cognicore/lexstat/pkg/lexstat/freq"
)

// Entry is one row of the frequency ranking.
type Entry struct {
	Lemma string
	POS   string
	Count int64
	Rank  int   // 1-based
	Zipf  int64 // Count * Rank
}

// Rank sorts records by descending count.
//
// Equal counts keep the order of records, which for a freq.Table is
// first-seen order. Rank-dependent results downstream (Zipf products and
// top-K graph membership) depend on this.
func Rank(records []freq.Record) []Entry {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = Entry{Lemma: r.Lemma, POS: r.POS, Count: r.Count}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Zipf = entries[i].Count * int64(entries[i].Rank)
	}
	return entries
}

// Top returns the first n entries, or all of them when n <= 0 or exceeds the length.
func Top(entries []Entry, n int) []Entry {
	if n <= 0 || n > len(entries) {
		return entries
	}
	return entries[:n]
}

// ZipfSummary describes how close the ranking is to a constant count*rank.
type ZipfSummary struct {
	Entries int
	Min     int64
	Max     int64
	Mean    float64
}

// Summarize computes min, max and mean Zipf product over entries.
func Summarize(entries []Entry) ZipfSummary {
	if len(entries) == 0 {
		return ZipfSummary{}
	}
	s := ZipfSummary{Entries: len(entries), Min: entries[0].Zipf, Max: entries[0].Zipf}
	var sum float64
	for _, e := range entries {
		if e.Zipf < s.Min {
			s.Min = e.Zipf
		}
		if e.Zipf > s.Max {
			s.Max = e.Zipf
		}
		sum += float64(e.Zipf)
	}
	s.Mean = sum / float64(len(entries))
	return s
}
