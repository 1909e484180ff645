package graph

import (
	"context"
	"errors"
	"fmt"
	"math/big"
)

// Walk streams every path leaving start, depth first, following outbound
// edges in edge order. A path ends when it reaches end (Complete) or a vertex
// it cannot continue from toward end: one without outbound edges, or another
// vertex at end's position. Paths are handed to fn one at a time and are
// owned by fn. Returning ErrStopWalk from fn ends the walk without error.
func (g *Graph) Walk(ctx context.Context, start, end VertexID, fn func(Path) error) error {
	if !g.hasVertex(start) {
		return fmt.Errorf("%w: start %d", ErrVertexNotFound, start)
	}
	if !g.hasVertex(end) {
		return fmt.Errorf("%w: end %d", ErrVertexNotFound, end)
	}
	endPos := g.vertices[end].Position

	cur := Path{Vertices: []VertexID{start}}
	var visit func(v VertexID) error
	visit = func(v VertexID) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := g.out[v]
		if v == end || len(out) == 0 || g.vertices[v].Position >= endPos {
			p := cur.clone()
			p.Complete = v == end
			return fn(p)
		}
		for _, e := range out {
			to := g.edges[e].To
			cur.Vertices = append(cur.Vertices, to)
			cur.Edges = append(cur.Edges, e)
			err := visit(to)
			cur.Vertices = cur.Vertices[:len(cur.Vertices)-1]
			cur.Edges = cur.Edges[:len(cur.Edges)-1]
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(start); err != nil && !errors.Is(err, ErrStopWalk) {
		return err
	}
	return nil
}

// EnumeratePaths collects the paths Walk produces. With limit > 0, producing
// more than limit paths stops the walk with ErrPathLimitExceeded; the first
// limit paths are still returned.
func (g *Graph) EnumeratePaths(ctx context.Context, start, end VertexID, limit int) ([]Path, error) {
	var paths []Path
	err := g.Walk(ctx, start, end, func(p Path) error {
		if limit > 0 && len(paths) == limit {
			return fmt.Errorf("%w: more than %d paths", ErrPathLimitExceeded, limit)
		}
		paths = append(paths, p)
		return nil
	})
	return paths, err
}

// CountPaths returns the number of distinct paths from start to end without
// enumerating them.
func (g *Graph) CountPaths(start, end VertexID) (*big.Int, error) {
	if !g.hasVertex(start) {
		return nil, fmt.Errorf("%w: start %d", ErrVertexNotFound, start)
	}
	if !g.hasVertex(end) {
		return nil, fmt.Errorf("%w: end %d", ErrVertexNotFound, end)
	}

	ways := make([]*big.Int, len(g.vertices))
	ways[start] = big.NewInt(1)
	from, to := g.vertices[start].Position, g.vertices[end].Position
	for p := from; p < to; p++ {
		for _, id := range g.positions[p] {
			if ways[id] == nil {
				continue
			}
			for _, e := range g.out[id] {
				next := g.edges[e].To
				if ways[next] == nil {
					ways[next] = new(big.Int)
				}
				ways[next].Add(ways[next], ways[id])
			}
		}
	}
	if ways[end] == nil {
		return new(big.Int), nil
	}
	return ways[end], nil
}
