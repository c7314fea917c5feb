// Package graph builds the weighted, undirected word-adjacency graph over the
// most frequent lemmas of a corpus.
package graph

import (
	"sort"

	"github.com/cognicore/lexstat/pkg/lexstat/freq"
	"github.com/cognicore/lexstat/pkg/lexstat/rank"
)

// Node is a (lemma, POS) pair drawn from the ranking.
type Node struct {
	Lemma string
	POS   string
	Count int64
	Rank  int
}

// Edge connects two distinct nodes. A and B follow node order (A ranks higher).
type Edge struct {
	A, B   string
	Weight int64
}

// pairKey is an unordered node pair packed as lo<<32 | hi with lo < hi.
type pairKey uint64

func newPairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey(uint64(a)<<32 | uint64(b))
}

func (k pairKey) split() (int, int) {
	return int(k >> 32), int(k & 0xffffffff)
}

// Graph is read-only once built.
type Graph struct {
	nodes  []Node
	index  map[string]int
	edges  map[pairKey]int64
	degree []int64
}

// Build selects the first k ranked entries as nodes and scans the token
// sequence of table once. Every pair of consecutive tokens whose lemmas are
// both nodes and distinct adds 1 to the weight of their edge. Pairs touching
// a lemma outside the node set are ignored.
//
// k <= 0 or k larger than the ranking selects every lemma.
func Build(entries []rank.Entry, table *freq.Table, k int) *Graph {
	selected := rank.Top(entries, k)

	g := &Graph{
		nodes:  make([]Node, len(selected)),
		index:  make(map[string]int, len(selected)),
		edges:  make(map[pairKey]int64),
		degree: make([]int64, len(selected)),
	}

	// record id -> node index, -1 when the lemma is not a node
	nodeOf := make([]int, table.Distinct())
	for i := range nodeOf {
		nodeOf[i] = -1
	}
	for i, e := range selected {
		g.nodes[i] = Node{Lemma: e.Lemma, POS: e.POS, Count: e.Count, Rank: e.Rank}
		g.index[e.Lemma] = i
		if id, ok := table.ID(e.Lemma); ok {
			nodeOf[id] = i
		}
	}
	if len(selected) < 2 {
		return g
	}

	seq := table.Sequence()
	for i := 0; i+1 < len(seq); i++ {
		a, b := nodeOf[seq[i]], nodeOf[seq[i+1]]
		if a < 0 || b < 0 || a == b {
			continue
		}
		g.edges[newPairKey(a, b)]++
		g.degree[a]++
		g.degree[b]++
	}
	return g
}

// Nodes returns nodes in rank order. Callers must not modify the slice.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// HasNode reports whether lemma is a node.
func (g *Graph) HasNode(lemma string) bool {
	_, ok := g.index[lemma]
	return ok
}

// Weight returns the edge weight between two lemmas, in either order.
// Missing edges and self pairs weigh 0.
func (g *Graph) Weight(a, b string) int64 {
	ia, ok := g.index[a]
	if !ok {
		return 0
	}
	ib, ok := g.index[b]
	if !ok || ia == ib {
		return 0
	}
	return g.edges[newPairKey(ia, ib)]
}

// Degree returns the weighted degree of lemma: the sum of its incident edge weights.
func (g *Graph) Degree(lemma string) int64 {
	i, ok := g.index[lemma]
	if !ok {
		return 0
	}
	return g.degree[i]
}

// Degrees returns weighted degrees aligned with Nodes. Callers must not modify the slice.
func (g *Graph) Degrees() []int64 {
	return g.degree
}

// Edges lists every edge, heaviest first; equal weights follow node order.
func (g *Graph) Edges() []Edge {
	keys := make([]pairKey, 0, len(g.edges))
	for k := range g.edges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		wi, wj := g.edges[keys[i]], g.edges[keys[j]]
		if wi != wj {
			return wi > wj
		}
		return keys[i] < keys[j]
	})

	out := make([]Edge, len(keys))
	for i, k := range keys {
		a, b := k.split()
		out[i] = Edge{A: g.nodes[a].Lemma, B: g.nodes[b].Lemma, Weight: g.edges[k]}
	}
	return out
}

// Neighbors returns the lemmas adjacent to lemma with their edge weights,
// heaviest first.
func (g *Graph) Neighbors(lemma string) []Edge {
	i, ok := g.index[lemma]
	if !ok {
		return nil
	}
	var out []Edge
	for k, w := range g.edges {
		a, b := k.split()
		switch i {
		case a:
			out = append(out, Edge{A: lemma, B: g.nodes[b].Lemma, Weight: w})
		case b:
			out = append(out, Edge{A: lemma, B: g.nodes[a].Lemma, Weight: w})
		}
	}
	sort.Slice(out, func(x, y int) bool {
		if out[x].Weight != out[y].Weight {
			return out[x].Weight > out[y].Weight
		}
		return g.index[out[x].B] < g.index[out[y].B]
	})
	return out
}
