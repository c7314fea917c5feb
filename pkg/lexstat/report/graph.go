package report

import (
	"encoding/json"
	"io"

	"github.com/cognicore/lexstat/pkg/lexstat/graph"
	"github.com/cognicore/lexstat/pkg/lexstat/pmi"
)

// GraphDoc is the exported co-occurrence graph, consumed by external
// renderers.
type GraphDoc struct {
	TotalTokens int64       `json:"total_tokens"`
	Nodes       []GraphNode `json:"nodes"`
	Edges       []GraphEdge `json:"edges"`
}

// GraphNode is one lemma of the graph.
type GraphNode struct {
	Lemma     string   `json:"lemma"`
	POS       string   `json:"pos,omitempty"`
	Rank      int      `json:"rank"`
	Count     int64    `json:"count"`
	Degree    int64    `json:"degree"`
	Neighbors []string `json:"neighbors,omitempty"` // heaviest first, at most NeighborsPerNode
}

// NeighborsPerNode caps GraphNode.Neighbors.
const NeighborsPerNode = 5

// GraphEdge is one weighted adjacency with its association scores.
type GraphEdge struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Weight int64   `json:"weight"`
	PMI    float64 `json:"pmi"`
	NPMI   float64 `json:"npmi"`
}

// NewGraphDoc converts g, scoring each edge with calc against total tokens.
func NewGraphDoc(g *graph.Graph, total int64, calc *pmi.Calculator) GraphDoc {
	nodes := g.Nodes()
	degrees := g.Degrees()

	doc := GraphDoc{
		TotalTokens: total,
		Nodes:       make([]GraphNode, len(nodes)),
		Edges:       []GraphEdge{},
	}
	counts := make(map[string]int64, len(nodes))
	for i, n := range nodes {
		doc.Nodes[i] = GraphNode{Lemma: n.Lemma, POS: n.POS, Rank: n.Rank, Count: n.Count, Degree: degrees[i]}
		counts[n.Lemma] = n.Count
		for _, e := range g.Neighbors(n.Lemma) {
			if len(doc.Nodes[i].Neighbors) == NeighborsPerNode {
				break
			}
			doc.Nodes[i].Neighbors = append(doc.Nodes[i].Neighbors, e.B)
		}
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, GraphEdge{
			A:      e.A,
			B:      e.B,
			Weight: e.Weight,
			PMI:    calc.Adjacency(e.Weight, counts[e.A], counts[e.B], total),
			NPMI:   calc.AdjacencyNPMI(e.Weight, counts[e.A], counts[e.B], total),
		})
	}
	return doc
}

// WriteGraphJSON writes doc as indented JSON.
func WriteGraphJSON(w io.Writer, doc GraphDoc) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
