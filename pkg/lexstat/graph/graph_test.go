package graph

import (
	"testing"

	"github.com/cognicore/lexstat/pkg/lexstat/freq"
	"github.com/cognicore/lexstat/pkg/lexstat/ingest"
	"github.com/cognicore/lexstat/pkg/lexstat/rank"
)

func build(t *testing.T, k int, lemmas ...string) (*Graph, *freq.Table) {
	t.Helper()
	acc := freq.NewAccumulator()
	for _, l := range lemmas {
		acc.Add(ingest.Token{Lemma: l, POS: "x"})
	}
	table := acc.Snapshot()
	return Build(rank.Rank(table.Records()), table, k), table
}

func TestGraphScenarioTwoDocuments(t *testing.T) {
	// doc1 A B A, doc2 B A; adjacency runs across the document boundary
	g, _ := build(t, 2, "A", "B", "A", "B", "A")

	if g.NodeCount() != 2 {
		t.Fatalf("expected 2 nodes, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("expected 1 edge, got %d", g.EdgeCount())
	}
	if w := g.Weight("A", "B"); w != 4 {
		t.Errorf("A-B weight = %d, want 4", w)
	}
	if w := g.Weight("B", "A"); w != 4 {
		t.Errorf("weight should be symmetric, got %d", w)
	}
	if w := g.Weight("A", "A"); w != 0 {
		t.Errorf("self-loop A-A weight = %d, want 0", w)
	}

	edges := g.Edges()
	if edges[0].A != "A" || edges[0].B != "B" {
		t.Errorf("edge endpoints should follow rank order, got %s-%s", edges[0].A, edges[0].B)
	}
}

func TestGraphSingleNodeHasNoEdges(t *testing.T) {
	g, _ := build(t, 1, "a", "b", "a", "c", "d", "e", "a", "a")

	if g.NodeCount() != 1 {
		t.Fatalf("expected 1 node, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("expected 0 edges, got %d", g.EdgeCount())
	}
	if g.Nodes()[0].Lemma != "a" {
		t.Errorf("node should be the top lemma, got %q", g.Nodes()[0].Lemma)
	}
}

func TestGraphRepeatedLemmaIsNotAnEdge(t *testing.T) {
	g, _ := build(t, 0, "a", "a", "a", "b", "b")

	if w := g.Weight("a", "b"); w != 1 {
		t.Errorf("a-b weight = %d, want 1", w)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("expected 1 edge, got %d", g.EdgeCount())
	}
	if g.Degree("a") != 1 || g.Degree("b") != 1 {
		t.Errorf("degrees = %d/%d, want 1/1", g.Degree("a"), g.Degree("b"))
	}
}

func TestGraphSkipsPairsOutsideNodeSet(t *testing.T) {
	// counts: a=3, b=2, c=1; k=2 keeps a and b only
	g, _ := build(t, 2, "a", "c", "b", "a", "b", "a")

	if g.HasNode("c") {
		t.Fatal("c should not be a node")
	}
	// a c | c b | b a | a b | b a  -> only a-b pairs count: 3
	if w := g.Weight("a", "b"); w != 3 {
		t.Errorf("a-b weight = %d, want 3", w)
	}
	if w := g.Weight("a", "c"); w != 0 {
		t.Errorf("a-c weight = %d, want 0 (c outside node set)", w)
	}
}

func TestGraphKClampsToVocabulary(t *testing.T) {
	g, table := build(t, 100, "a", "b", "c")
	if g.NodeCount() != table.Distinct() {
		t.Errorf("NodeCount = %d, want %d", g.NodeCount(), table.Distinct())
	}
}

func TestGraphEmptyCorpus(t *testing.T) {
	table := freq.NewAccumulator().Snapshot()
	g := Build(rank.Rank(table.Records()), table, 10)

	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("empty corpus should yield empty graph, got %d nodes %d edges", g.NodeCount(), g.EdgeCount())
	}
	if len(g.Edges()) != 0 {
		t.Error("Edges should be empty")
	}
}

func TestGraphWeightsMatchAdjacentPositions(t *testing.T) {
	lemmas := []string{"a", "b", "c", "a", "d", "b", "a", "c", "c", "e", "a", "b", "f", "a", "b"}
	k := 4
	g, table := build(t, k, lemmas...)

	nodes := make(map[string]bool)
	for _, n := range g.Nodes() {
		nodes[n.Lemma] = true
	}

	expected := make(map[[2]string]int64)
	for i := 0; i+1 < len(lemmas); i++ {
		x, y := lemmas[i], lemmas[i+1]
		if x == y || !nodes[x] || !nodes[y] {
			continue
		}
		if x > y {
			x, y = y, x
		}
		expected[[2]string{x, y}]++
	}

	seen := make(map[[2]string]bool)
	for _, e := range g.Edges() {
		if e.A == e.B {
			t.Errorf("self-loop on %s", e.A)
		}
		if e.Weight < 1 {
			t.Errorf("edge %s-%s has weight %d", e.A, e.B, e.Weight)
		}
		x, y := e.A, e.B
		if x > y {
			x, y = y, x
		}
		key := [2]string{x, y}
		if seen[key] {
			t.Errorf("duplicate edge %s-%s", x, y)
		}
		seen[key] = true
		if expected[key] != e.Weight {
			t.Errorf("edge %s-%s weight %d, want %d", x, y, e.Weight, expected[key])
		}
	}
	if len(seen) != len(expected) {
		t.Errorf("graph has %d edges, want %d", len(seen), len(expected))
	}
	if g.NodeCount() != k || table.Distinct() <= k {
		t.Errorf("NodeCount = %d, distinct = %d", g.NodeCount(), table.Distinct())
	}
}

func TestGraphDegreeIsSumOfIncidentWeights(t *testing.T) {
	g, _ := build(t, 0, "a", "b", "c", "a", "c", "b", "a")

	for _, n := range g.Nodes() {
		var sum int64
		for _, e := range g.Neighbors(n.Lemma) {
			sum += e.Weight
		}
		if sum != g.Degree(n.Lemma) {
			t.Errorf("%s: neighbor weight sum %d != degree %d", n.Lemma, sum, g.Degree(n.Lemma))
		}
	}
}

func TestGraphNeighborsOrdering(t *testing.T) {
	g, _ := build(t, 0, "a", "b", "a", "b", "a", "c")

	nb := g.Neighbors("a")
	if len(nb) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(nb))
	}
	if nb[0].B != "b" || nb[0].Weight != 4 {
		t.Errorf("heaviest neighbor = %+v, want b/4", nb[0])
	}
	if nb[1].B != "c" || nb[1].Weight != 1 {
		t.Errorf("second neighbor = %+v, want c/1", nb[1])
	}
	if g.Neighbors("missing") != nil {
		t.Error("unknown lemma should have no neighbors")
	}
}
