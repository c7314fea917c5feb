package report

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/lexstat/pkg/lexstat/analytics"
	"github.com/cognicore/lexstat/pkg/lexstat/freq"
	"github.com/cognicore/lexstat/pkg/lexstat/graph"
	"github.com/cognicore/lexstat/pkg/lexstat/ingest"
	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/pmi"
	"github.com/cognicore/lexstat/pkg/lexstat/rank"
)

// abTable is the two-document corpus A B A | B A.
func abTable() *freq.Table {
	acc := freq.NewAccumulator()
	for _, tok := range []ingest.Token{
		{Lemma: "A", POS: "noun"},
		{Lemma: "B", POS: "verb"},
		{Lemma: "A", POS: "noun"},
		{Lemma: "B", POS: "verb"},
		{Lemma: "A", POS: "noun"},
	} {
		acc.Add(tok)
	}
	return acc.Snapshot()
}

func abInput() Input {
	table := abTable()
	entries := rank.Rank(table.Records())
	g := graph.Build(entries, table, 2)
	central := analytics.CentralityRanking(g)
	return Input{
		Corpus:           "mem",
		Documents:        2,
		TotalTokens:      table.Total(),
		DistinctLemmas:   table.Distinct(),
		Ranking:          entries,
		Centrality:       central,
		TargetPOS:        "noun",
		TargetCentrality: analytics.TopByPOS(central, 5, analytics.ExactPOS("noun")),
		Coverage:         analytics.CoreVocabulary(table, 0.9),
	}
}

func TestBuild(t *testing.T) {
	b := NewBuilder()
	b.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	in := abInput()
	in.Translate = func(lemma string) string {
		if lemma == "A" {
			return "alpha"
		}
		return ""
	}
	r := b.Build(in)

	assert.Len(t, r.ID, 26)
	assert.Equal(t, int64(5), r.TotalTokens)
	require.Len(t, r.Ranking, 2)
	assert.Equal(t, RankRow{Rank: 1, Lemma: "A", POS: "noun", Count: 3, Zipf: 3, Translation: "alpha"}, r.Ranking[0])
	assert.Equal(t, RankRow{Rank: 2, Lemma: "B", POS: "verb", Count: 2, Zipf: 4}, r.Ranking[1])

	require.Len(t, r.Centrality, 2)
	assert.Equal(t, int64(4), r.Centrality[0].Degree)
	assert.Equal(t, 1, r.Centrality[0].Position)

	require.Len(t, r.TargetCentrality, 1)
	assert.Equal(t, "A", r.TargetCentrality[0].Lemma)

	assert.Equal(t, 2, r.Coverage.CoreSize)
	assert.Equal(t, int64(5), r.Coverage.Cumulative)
	assert.True(t, r.Coverage.Reached)
}

func TestBuild_UniqueIDs(t *testing.T) {
	b := NewBuilder()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := b.Build(Input{}).ID
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestBuild_Empty(t *testing.T) {
	r := NewBuilder().Build(Input{Coverage: analytics.Coverage{Fraction: 0.9}})
	assert.Empty(t, r.Ranking)
	assert.NotNil(t, r.Ranking)
	assert.Equal(t, 0.9, r.Coverage.Fraction)

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, r))
	assert.Contains(t, buf.String(), "Total tokens: 0")
	assert.Contains(t, buf.String(), "not reached")
}

func TestRenderText_SectionOrder(t *testing.T) {
	r := NewBuilder().Build(abInput())

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, r))
	out := buf.String()

	sections := []string{
		"Total tokens: 5",
		"Top 2 by count:",
		"A: 3 (rank: 1, product: 3)",
		"B: 2 (rank: 2, product: 4)",
		"Top 2 by weighted degree:",
		"1. A [noun]: degree 4 (count: 3)",
		"Top 1 noun by weighted degree:",
		"Core vocabulary: 2 lemmas cover 5 of 5 tokens (90.0% target)",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(out, s)
		require.GreaterOrEqual(t, idx, 0, "missing %q in\n%s", s, out)
		assert.Greater(t, idx, last, "%q out of order", s)
		last = idx
	}
}

func TestRender_JSONAndYAML(t *testing.T) {
	r := NewBuilder().Build(abInput())

	var jbuf bytes.Buffer
	require.NoError(t, Render(&jbuf, r, "json"))
	var fromJSON Report
	require.NoError(t, json.Unmarshal(jbuf.Bytes(), &fromJSON))
	assert.Equal(t, r.ID, fromJSON.ID)
	assert.Equal(t, r.Ranking, fromJSON.Ranking)

	var ybuf bytes.Buffer
	require.NoError(t, Render(&ybuf, r, "YAML"))
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(ybuf.Bytes(), &fromYAML))
	assert.Equal(t, 5, fromYAML["total_tokens"])
	assert.Equal(t, "noun", fromYAML["target_pos"])
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, Report{}, "html")
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestFileSink_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.txt")
	sink := FileSink{Path: path}

	write := func(s string) error {
		return sink.Write(func(w io.Writer) error {
			_, err := w.Write([]byte(s))
			return err
		})
	}
	require.NoError(t, write("first\n"))
	require.NoError(t, write("second\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestEmit_WriterSink(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Emit(WriterSink{W: &buf}, NewBuilder().Build(abInput()), "text"))
	assert.True(t, strings.HasPrefix(buf.String(), "Total tokens: 5\n"))
}

func TestGraphDoc(t *testing.T) {
	table := abTable()
	g := graph.Build(rank.Rank(table.Records()), table, 0)
	doc := NewGraphDoc(g, table.Total(), pmi.NewCalculator(0))

	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, GraphNode{Lemma: "A", POS: "noun", Rank: 1, Count: 3, Degree: 4, Neighbors: []string{"B"}}, doc.Nodes[0])
	assert.Equal(t, []string{"A"}, doc.Nodes[1].Neighbors)
	require.Len(t, doc.Edges, 1)
	assert.Equal(t, "A", doc.Edges[0].A)
	assert.Equal(t, int64(4), doc.Edges[0].Weight)
	// log(4*5/(3*2)) - log 2 = log(10/6)
	assert.InDelta(t, 0.5108, doc.Edges[0].PMI, 1e-3)
	// log(10/6) / -log(4/10)
	assert.InDelta(t, 0.5575, doc.Edges[0].NPMI, 1e-3)

	var buf bytes.Buffer
	require.NoError(t, WriteGraphJSON(&buf, doc))
	var back GraphDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, doc, back)
}

func TestGraphDoc_NoEdgesIsEmptyArray(t *testing.T) {
	doc := NewGraphDoc(graph.Build(nil, freq.NewAccumulator().Snapshot(), 0), 0, pmi.NewCalculator(0))

	var buf bytes.Buffer
	require.NoError(t, WriteGraphJSON(&buf, doc))
	assert.Contains(t, buf.String(), `"edges": []`)
}
