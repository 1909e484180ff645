package graph

import (
	"fmt"
	"slices"

	"github.com/ChrisMcGann/SeqGraph/pkg/core"
)

// Reconcile walks backward from end, choosing at each position the inbound
// edge whose residue equals the target residue there, and returns the path
// ordered N->C. target must cover every graph position, terminal markers
// included.
//
// The walk is greedy and linear. When no inbound edge matches, the partial
// path built so far is returned with Complete unset and no error. When end
// itself does not match the target, that path is empty. Two matching edges
// are reported as ErrAmbiguousMatch.
func (g *Graph) Reconcile(end VertexID, target core.Sequence) (Path, error) {
	if !g.hasVertex(end) {
		return Path{}, fmt.Errorf("%w: %d", ErrVertexNotFound, end)
	}
	n := g.NumPositions()
	if len(target) != n {
		return Path{}, fmt.Errorf("%w: target has %d positions, graph has %d", ErrLengthMismatch, len(target), n)
	}

	cur := end
	endPos := g.vertices[end].Position
	if !g.vertices[end].Residue.Equal(target[endPos]) {
		return Path{}, nil
	}

	vertices := []VertexID{end}
	var edges []EdgeID
	for r := reversedIndex(n, endPos) + 1; r < n; r++ {
		p := reversedIndex(n, r)
		e, ok, err := g.matchInbound(cur, target[p])
		if err != nil {
			return Path{}, fmt.Errorf("position %d: %w", p, err)
		}
		if !ok {
			break
		}
		edges = append(edges, e)
		cur = g.edges[e].From
		vertices = append(vertices, cur)
	}

	slices.Reverse(vertices)
	slices.Reverse(edges)
	return Path{
		Vertices: vertices,
		Edges:    edges,
		Complete: g.vertices[cur].Position == 0,
	}, nil
}

// ReconcileSequence reconciles target from the C-terminal vertex whose state
// matches the target's C-terminal marker.
func (g *Graph) ReconcileSequence(target core.Sequence) (Path, error) {
	n := g.NumPositions()
	if len(target) != n {
		return Path{}, fmt.Errorf("%w: target has %d positions, graph has %d", ErrLengthMismatch, len(target), n)
	}
	for _, id := range g.positions[n-1] {
		if g.vertices[id].Residue.Equal(target[n-1]) {
			return g.Reconcile(id, target)
		}
	}
	return Path{}, nil
}

func (g *Graph) matchInbound(v VertexID, want core.Residue) (EdgeID, bool, error) {
	match, found := EdgeID(0), false
	for _, e := range g.in[v] {
		if !g.edges[e].Residue.Equal(want) {
			continue
		}
		if found {
			return 0, false, fmt.Errorf("%w: edges %d and %d both carry %s", ErrAmbiguousMatch, match, e, want)
		}
		match, found = e, true
	}
	return match, found, nil
}
