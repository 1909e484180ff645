package graph

import (
	"slices"

	"github.com/ChrisMcGann/SeqGraph/pkg/core"
)

// Path is a sequence of vertices at consecutive positions together with the
// edges joining them, ordered N->C. Complete is set when the path reached the
// vertex it was looking for: the end vertex during enumeration, position 0
// during reconciliation.
type Path struct {
	Vertices []VertexID
	Edges    []EdgeID
	Complete bool
}

// Len returns the number of vertices.
func (p Path) Len() int { return len(p.Vertices) }

// First returns the first vertex; ok is false for an empty path.
func (p Path) First() (VertexID, bool) {
	if len(p.Vertices) == 0 {
		return 0, false
	}
	return p.Vertices[0], true
}

// Last returns the last vertex; ok is false for an empty path.
func (p Path) Last() (VertexID, bool) {
	if len(p.Vertices) == 0 {
		return 0, false
	}
	return p.Vertices[len(p.Vertices)-1], true
}

// Equal reports whether both paths visit the same vertices over the same edges.
func (p Path) Equal(o Path) bool {
	return slices.Equal(p.Vertices, o.Vertices) && slices.Equal(p.Edges, o.Edges)
}

// Sequence reconstructs the residues of the path: one per traversed edge,
// then the state of the final vertex. A path spanning start to end yields a
// full core.Sequence with both terminal markers.
func (p Path) Sequence(g *Graph) core.Sequence {
	last, ok := p.Last()
	if !ok {
		return nil
	}
	seq := make(core.Sequence, 0, len(p.Vertices))
	for _, e := range p.Edges {
		seq = append(seq, g.edges[e].Residue)
	}
	return append(seq, g.vertices[last].Residue)
}

// PlacedModification is a modification at a graph position.
type PlacedModification struct {
	Position int
	Residue  byte
	Mod      *core.Modification
}

// Modifications lists every modification placed along the path, N->C.
func (p Path) Modifications(g *Graph) []PlacedModification {
	var out []PlacedModification
	for _, id := range p.Vertices {
		v := g.vertices[id]
		for _, m := range v.Residue.Mods {
			out = append(out, PlacedModification{Position: v.Position, Residue: v.Residue.Code, Mod: m})
		}
	}
	return out
}

// OptionalModificationCount counts the modifications beyond those fixed at
// each visited position.
func (p Path) OptionalModificationCount(g *Graph) int {
	n := 0
	for _, id := range p.Vertices {
		v := g.vertices[id]
		n += len(v.Residue.Mods) - len(g.states.Fixed(v.Position))
	}
	return n
}

// PrefixCompositions returns, for each vertex of the path, the cumulative
// composition from the first vertex through it.
func (p Path) PrefixCompositions(g *Graph) []core.Composition {
	out := make([]core.Composition, len(p.Vertices))
	var acc core.Composition
	for i, id := range p.Vertices {
		acc = acc.Add(g.vertices[id].Residue.Composition())
		out[i] = acc
	}
	return out
}

// SuffixCompositions returns, for each vertex of the path, the cumulative
// composition from it through the last vertex.
func (p Path) SuffixCompositions(g *Graph) []core.Composition {
	out := make([]core.Composition, len(p.Vertices))
	var acc core.Composition
	for i := len(p.Vertices) - 1; i >= 0; i-- {
		acc = acc.Add(g.vertices[p.Vertices[i]].Residue.Composition())
		out[i] = acc
	}
	return out
}

// NeutralMass returns the mass of the path's residues plus water.
func (p Path) NeutralMass(g *Graph) float64 {
	return p.Sequence(g).NeutralMass()
}

func (p Path) clone() Path {
	return Path{
		Vertices: slices.Clone(p.Vertices),
		Edges:    slices.Clone(p.Edges),
		Complete: p.Complete,
	}
}
