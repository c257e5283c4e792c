package segmentation

import (
	"container/heap"
	"sort"
)

// unweighted marks an edge whose weight has not been computed yet. Edges
// carrying it must be reweighted before the merge loop runs.
const unweighted = -1

// Edge is an unordered pair of region identifiers, stored canonically with
// U < V. Self-loops are not representable; NewEdge rejects them.
type Edge struct {
	U, V uint32
}

// NewEdge canonicalizes the pair. The second return is false for self-loops.
func NewEdge(a, b uint32) (Edge, bool) {
	if a == b {
		return Edge{}, false
	}
	if a > b {
		a, b = b, a
	}
	return Edge{U: a, V: b}, true
}

// rename substitutes from with to in the edge endpoints and recanonicalizes.
// The second return is false if the rename collapses the edge to a self-loop.
func (e Edge) rename(from, to uint32) (Edge, bool) {
	u, v := e.U, e.V
	if u == from {
		u = to
	}
	if v == from {
		v = to
	}
	return NewEdge(u, v)
}

// Touches reports whether the edge is incident on the given identifier.
func (e Edge) Touches(id uint32) bool {
	return e.U == id || e.V == id
}

// less orders edges lexicographically by (U, V).
func (e Edge) less(o Edge) bool {
	if e.U != o.U {
		return e.U < o.U
	}
	return e.V < o.V
}

// WeightedEdge is an edge with its unified dissimilarity. The total order is
// by weight ascending, then by (U, V) so extraction is deterministic under
// weight ties.
type WeightedEdge struct {
	Weight float64
	Edge   Edge
}

func (w WeightedEdge) less(o WeightedEdge) bool {
	if w.Weight != o.Weight {
		return w.Weight < o.Weight
	}
	return w.Edge.less(o.Edge)
}

type edgeHeap []WeightedEdge

func (h edgeHeap) Len() int            { return len(h) }
func (h edgeHeap) Less(i, j int) bool  { return h[i].less(h[j]) }
func (h edgeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *edgeHeap) Push(x interface{}) { *h = append(*h, x.(WeightedEdge)) }
func (h *edgeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// WeightedGraph is an ordered container of weighted edges with logarithmic
// insertion and minimum extraction, plus membership tests by endpoint pair.
// At most one edge per endpoint pair is held; a second insert of the same
// pair is ignored.
type WeightedGraph struct {
	heap    edgeHeap
	members map[Edge]struct{}
}

// NewWeightedGraph returns an empty graph.
func NewWeightedGraph() *WeightedGraph {
	return &WeightedGraph{members: make(map[Edge]struct{})}
}

// Len returns the number of edges.
func (g *WeightedGraph) Len() int {
	return len(g.heap)
}

// Contains reports whether an edge with the given endpoints is present.
func (g *WeightedGraph) Contains(e Edge) bool {
	_, ok := g.members[e]
	return ok
}

// Insert adds the weighted edge, ignoring duplicates by endpoint pair.
// It reports whether the edge was added.
func (g *WeightedGraph) Insert(we WeightedEdge) bool {
	if _, ok := g.members[we.Edge]; ok {
		return false
	}
	g.members[we.Edge] = struct{}{}
	heap.Push(&g.heap, we)
	return true
}

// Min returns the minimum-weight edge without removing it. The second return
// is false when the graph is empty.
func (g *WeightedGraph) Min() (WeightedEdge, bool) {
	if len(g.heap) == 0 {
		return WeightedEdge{}, false
	}
	return g.heap[0], true
}

// ExtractMin removes and returns the minimum-weight edge.
func (g *WeightedGraph) ExtractMin() (WeightedEdge, bool) {
	if len(g.heap) == 0 {
		return WeightedEdge{}, false
	}
	we := heap.Pop(&g.heap).(WeightedEdge)
	delete(g.members, we.Edge)
	return we, true
}

// Edges returns all edges sorted by the total order.
func (g *WeightedGraph) Edges() []WeightedEdge {
	out := make([]WeightedEdge, len(g.heap))
	copy(out, g.heap)
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// Adjacency returns the endpoint pairs sorted lexicographically, dropping the
// weight information.
func (g *WeightedGraph) Adjacency() []Edge {
	out := make([]Edge, 0, len(g.heap))
	for e := range g.members {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// clone returns an independent graph over the same edges.
func (g *WeightedGraph) clone() *WeightedGraph {
	out := &WeightedGraph{
		heap:    make(edgeHeap, len(g.heap)),
		members: make(map[Edge]struct{}, len(g.members)),
	}
	copy(out.heap, g.heap)
	for e := range g.members {
		out.members[e] = struct{}{}
	}
	return out
}
