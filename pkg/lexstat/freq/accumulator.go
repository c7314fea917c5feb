// Package freq accumulates per-lemma occurrence counts and the global
// occurrence-ordered lemma sequence in a single pass over a token stream.
package freq

import "github.com/cognicore/lexstat/pkg/lexstat/ingest"

// Record is the aggregate state of one distinct lemma.
// POS is fixed by the first occurrence; later occurrences only bump Count.
type Record struct {
	Lemma string
	POS   string
	Count int64
}

// Accumulator consumes tokens in order. It is not safe for concurrent use.
type Accumulator struct {
	records  []Record       // first-seen order
	index    map[string]int // lemma -> position in records
	sequence []int32        // record ids in occurrence order
	total    int64
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		index: make(map[string]int),
	}
}

// Add consumes one token.
func (a *Accumulator) Add(tok ingest.Token) {
	id, ok := a.index[tok.Lemma]
	if !ok {
		id = len(a.records)
		a.index[tok.Lemma] = id
		a.records = append(a.records, Record{Lemma: tok.Lemma, POS: tok.POS})
	}
	a.records[id].Count++
	a.sequence = append(a.sequence, int32(id))
	a.total++
}

// Consume adapts Add to the ingest.Reader callback shape.
func (a *Accumulator) Consume(tok ingest.Token) error {
	a.Add(tok)
	return nil
}

// Total returns the number of tokens consumed.
func (a *Accumulator) Total() int64 {
	return a.total
}

// Distinct returns the number of distinct lemmas.
func (a *Accumulator) Distinct() int {
	return len(a.records)
}

// Lookup returns the record for lemma.
func (a *Accumulator) Lookup(lemma string) (Record, bool) {
	id, ok := a.index[lemma]
	if !ok {
		return Record{}, false
	}
	return a.records[id], true
}

// Snapshot freezes the accumulated state. The accumulator must not be used
// afterwards; the snapshot takes ownership of its buffers.
func (a *Accumulator) Snapshot() *Table {
	t := &Table{
		records:  a.records,
		index:    a.index,
		sequence: a.sequence,
		total:    a.total,
	}
	a.records, a.index, a.sequence, a.total = nil, make(map[string]int), nil, 0
	return t
}

// Table is the read-only result of an accumulation pass.
type Table struct {
	records  []Record
	index    map[string]int
	sequence []int32
	total    int64
}

// Records returns all records in first-seen order. Callers must not modify the slice.
func (t *Table) Records() []Record {
	return t.records
}

// Total returns the total token count.
func (t *Table) Total() int64 {
	return t.total
}

// Distinct returns the number of distinct lemmas.
func (t *Table) Distinct() int {
	return len(t.records)
}

// Lookup returns the record for lemma.
func (t *Table) Lookup(lemma string) (Record, bool) {
	id, ok := t.index[lemma]
	if !ok {
		return Record{}, false
	}
	return t.records[id], true
}

// ID returns the first-seen index of lemma, which is also its id in Sequence.
func (t *Table) ID(lemma string) (int, bool) {
	id, ok := t.index[lemma]
	return id, ok
}

// Sequence returns record ids in global occurrence order.
// Callers must not modify the slice.
func (t *Table) Sequence() []int32 {
	return t.sequence
}

// Lemmas expands Sequence into lemma strings. Intended for tests and small corpora.
func (t *Table) Lemmas() []string {
	out := make([]string, len(t.sequence))
	for i, id := range t.sequence {
		out[i] = t.records[id].Lemma
	}
	return out
}
