package graph

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/ChrisMcGann/SeqGraph/pkg/core"
)

// Builder constructs graphs for one catalog and constraint set.
type Builder struct {
	catalog     *core.Catalog
	constraints []core.SearchModification
	logger      *zap.Logger

	// MaxCombinations bounds the combinations at any position; 0 = unlimited.
	MaxCombinations int
}

// NewBuilder validates constraints against catalog. Constraint order is
// significant: it decides which terminal constraint wins a position and the
// order of combinations.
func NewBuilder(catalog *core.Catalog, constraints []core.SearchModification) (*Builder, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: nil catalog", ErrInvalidConstraint)
	}
	for i, c := range constraints {
		if err := c.Validate(catalog); err != nil {
			return nil, fmt.Errorf("%w: constraint %d (%s): %w", ErrInvalidConstraint, i, c, err)
		}
	}
	return &Builder{
		catalog:     catalog,
		constraints: slices.Clone(constraints),
		logger:      zap.NewNop(),
	}, nil
}

// SetLogger sets the logger for build diagnostics.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Catalog returns the catalog constraints were validated against. Sequences
// to reconcile should be parsed with it.
func (b *Builder) Catalog() *core.Catalog {
	return b.catalog
}

// Constraints returns the constraints in declaration order.
func (b *Builder) Constraints() []core.SearchModification {
	return slices.Clone(b.constraints)
}

// Build parses annotation and materializes its graph. On any error, including
// cancellation of ctx, no graph is returned.
func (b *Builder) Build(ctx context.Context, annotation string) (*Graph, error) {
	a, err := ParseAnnotation(annotation)
	if err != nil {
		return nil, err
	}

	states, err := ComputeStates(ctx, a, b.constraints, b.MaxCombinations)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		annotation: a,
		states:     states,
		positions:  make([][]VertexID, a.NumPositions()),
	}
	b.addVertices(g)
	if err := b.addEdges(ctx, g); err != nil {
		return nil, err
	}

	b.logger.Debug("built sequence graph",
		zap.String("annotation", a.String()),
		zap.Int("positions", g.NumPositions()),
		zap.Int("vertices", g.NumVertices()),
		zap.Int("edges", g.NumEdges()))
	return g, nil
}

// addVertices creates one vertex per position and combination with ids
// dense in N->C order.
func (b *Builder) addVertices(g *Graph) {
	a := g.annotation
	n := a.NumPositions()

	// Backbone compositions before and after each position. The suffix is
	// accumulated from the C-terminal side.
	before := make([]core.Composition, n)
	after := make([]core.Composition, n)
	for p := 1; p < n; p++ {
		before[p] = before[p-1].Add(a.Residue(p - 1).Composition())
	}
	for r := 1; r < n; r++ {
		p := reversedIndex(n, r)
		after[p] = after[p+1].Add(a.Residue(p + 1).Composition())
	}

	for p := 0; p < n; p++ {
		base := a.Residue(p)
		for k, combo := range g.states.At(p) {
			id := VertexID(len(g.vertices))
			res := base.WithCombination(combo)
			own := res.Composition()
			g.vertices = append(g.vertices, Vertex{
				ID:       id,
				Position: p,
				Index:    k,
				Residue:  res,
				Prefix:   before[p].Add(own),
				Suffix:   own.Add(after[p]),
			})
			g.positions[p] = append(g.positions[p], id)
		}
	}
	g.in = make([][]EdgeID, len(g.vertices))
	g.out = make([][]EdgeID, len(g.vertices))
}

// addEdges joins every vertex at p-1 to every vertex at p. The combinations
// at neighboring positions are independent, so each pair is explainable by
// committing the source residue's state.
func (b *Builder) addEdges(ctx context.Context, g *Graph) error {
	for p := 1; p < len(g.positions); p++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrBuildCancelled, err)
		}
		for _, from := range g.positions[p-1] {
			src := g.vertices[from]
			for _, to := range g.positions[p] {
				id := EdgeID(len(g.edges))
				g.edges = append(g.edges, Edge{
					ID:      id,
					From:    from,
					To:      to,
					Residue: src.Residue,
					Delta:   src.Combination(),
				})
				g.out[from] = append(g.out[from], id)
				g.in[to] = append(g.in[to], id)
			}
		}
	}
	return nil
}
