// Package graph builds and traverses modification-aware sequence graphs.
//
// A graph has one position per residue of a backbone plus a synthetic
// N-terminal and C-terminal marker, numbered 0..N-1 from the N-terminus.
// Each position holds one vertex per legal modification combination of its
// residue, and every vertex at position p-1 has an edge to every vertex at p.
// A path from a start vertex to an end vertex is one proteoform.
//
// Vertices and edges live in flat arenas owned by the Graph. A Graph is
// immutable once Build returns it and may be read from multiple goroutines.
package graph

import (
	"fmt"
	"slices"

	"github.com/ChrisMcGann/SeqGraph/pkg/core"
)

// VertexID indexes the vertex arena.
type VertexID int

// EdgeID indexes the edge arena.
type EdgeID int

// Vertex is one residue position in one modification state.
type Vertex struct {
	ID       VertexID
	Position int
	// Index of the combination in States.At(Position).
	Index   int
	Residue core.Residue
	// Prefix covers the backbone from the N-terminal marker through this
	// residue, Suffix from this residue through the C-terminal marker. Only
	// this vertex's own modifications are included.
	Prefix core.Composition
	Suffix core.Composition
}

// Combination returns the modifications carried by the vertex.
func (v Vertex) Combination() core.Combination {
	return v.Residue.Mods
}

// Edge leads from a vertex at position p-1 to one at p. Residue and Delta
// are those of the source vertex: traversing the edge commits its state.
type Edge struct {
	ID      EdgeID
	From    VertexID
	To      VertexID
	Residue core.Residue
	Delta   core.Combination
}

// Graph is a layered DAG of modification states.
type Graph struct {
	annotation Annotation
	states     *States
	vertices   []Vertex
	edges      []Edge
	positions  [][]VertexID
	in         [][]EdgeID
	out        [][]EdgeID
}

// Annotation returns the backbone the graph was built from.
func (g *Graph) Annotation() Annotation { return g.annotation }

// States returns the combination table the graph was built from.
func (g *Graph) States() *States { return g.states }

// NumPositions returns the number of positions, terminal markers included.
func (g *Graph) NumPositions() int { return len(g.positions) }

// NumVertices returns the vertex count.
func (g *Graph) NumVertices() int { return len(g.vertices) }

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int { return len(g.edges) }

func (g *Graph) hasVertex(id VertexID) bool {
	return id >= 0 && int(id) < len(g.vertices)
}

// Vertex returns the vertex with the given id.
func (g *Graph) Vertex(id VertexID) (Vertex, error) {
	if !g.hasVertex(id) {
		return Vertex{}, fmt.Errorf("%w: %d", ErrVertexNotFound, id)
	}
	return g.vertices[id], nil
}

// Edge returns the edge with the given id. It panics on an id outside the graph.
func (g *Graph) Edge(id EdgeID) Edge {
	return g.edges[id]
}

// Vertices returns a copy of all vertices in id order.
func (g *Graph) Vertices() []Vertex { return slices.Clone(g.vertices) }

// Edges returns a copy of all edges in id order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Position returns the vertex ids at position p in combination order.
func (g *Graph) Position(p int) []VertexID {
	if p < 0 || p >= len(g.positions) {
		return nil
	}
	return slices.Clone(g.positions[p])
}

// VertexAt returns the vertex for combination index k at position p.
func (g *Graph) VertexAt(p, k int) (VertexID, bool) {
	if p < 0 || p >= len(g.positions) || k < 0 || k >= len(g.positions[p]) {
		return 0, false
	}
	return g.positions[p][k], true
}

// InEdges returns the edges entering id.
func (g *Graph) InEdges(id VertexID) []EdgeID {
	if !g.hasVertex(id) {
		return nil
	}
	return slices.Clone(g.in[id])
}

// OutEdges returns the edges leaving id.
func (g *Graph) OutEdges(id VertexID) []EdgeID {
	if !g.hasVertex(id) {
		return nil
	}
	return slices.Clone(g.out[id])
}

// Start returns the N-terminal vertex without optional terminal modifications.
func (g *Graph) Start() VertexID { return g.positions[0][0] }

// End returns the C-terminal vertex without optional terminal modifications.
func (g *Graph) End() VertexID { return g.positions[len(g.positions)-1][0] }

// Starts returns every N-terminal vertex.
func (g *Graph) Starts() []VertexID { return g.Position(0) }

// Ends returns every C-terminal vertex.
func (g *Graph) Ends() []VertexID { return g.Position(len(g.positions) - 1) }

// Validate checks the structural invariants: dense positions matching the
// state table, edges joining adjacent positions and carrying their source
// state, and no interior vertex without both inbound and outbound edges.
func (g *Graph) Validate() error {
	n := len(g.positions)
	if g.states == nil || g.states.Len() != n {
		return fmt.Errorf("%w: state table does not cover %d positions", ErrInvariant, n)
	}

	seen := 0
	for p, ids := range g.positions {
		combos := g.states.At(p)
		if len(ids) != len(combos) {
			return fmt.Errorf("%w: position %d has %d vertices for %d combinations", ErrInvariant, p, len(ids), len(combos))
		}
		for k, id := range ids {
			v := g.vertices[id]
			if v.Position != p || v.Index != k {
				return fmt.Errorf("%w: vertex %d filed at (%d,%d) but is (%d,%d)", ErrInvariant, id, p, k, v.Position, v.Index)
			}
			if !v.Combination().Equal(combos[k]) {
				return fmt.Errorf("%w: vertex %d carries %s, want %s", ErrInvariant, id, v.Combination(), combos[k])
			}
			if p > 0 && len(g.in[id]) == 0 {
				return fmt.Errorf("%w: vertex %d at position %d has no inbound edge", ErrInvariant, id, p)
			}
			if p < n-1 && len(g.out[id]) == 0 {
				return fmt.Errorf("%w: vertex %d at position %d has no outbound edge", ErrInvariant, id, p)
			}
			seen++
		}
	}
	if seen != len(g.vertices) {
		return fmt.Errorf("%w: %d vertices filed, %d allocated", ErrInvariant, seen, len(g.vertices))
	}

	for _, e := range g.edges {
		from, to := g.vertices[e.From], g.vertices[e.To]
		if to.Position != from.Position+1 {
			return fmt.Errorf("%w: edge %d joins positions %d and %d", ErrInvariant, e.ID, from.Position, to.Position)
		}
		if !e.Residue.Equal(from.Residue) || !e.Delta.Equal(from.Combination()) {
			return fmt.Errorf("%w: edge %d carries %s, source vertex is %s", ErrInvariant, e.ID, e.Residue, from.Residue)
		}
	}
	return nil
}
