package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/SeqGraph/pkg/core"
)

func build(t *testing.T, annotation string, constraints ...core.SearchModification) *Graph {
	t.Helper()
	b, err := NewBuilder(testCatalog, constraints)
	require.NoError(t, err)
	g, err := b.Build(context.Background(), annotation)
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	return g
}

func TestBuildFixedCarbamidomethyl(t *testing.T) {
	g := build(t, "K.ACDEFGHIK.R", fixed(t, "Carbamidomethyl", 'C', core.Everywhere))

	require.Equal(t, 11, g.NumPositions())
	for p := 0; p < g.NumPositions(); p++ {
		ids := g.Position(p)
		require.Len(t, ids, 1, "position %d", p)
		v, err := g.Vertex(ids[0])
		require.NoError(t, err)
		if p == 2 {
			assert.Equal(t, "C[Carbamidomethyl]", v.Residue.String())
		} else {
			assert.False(t, v.Residue.IsModified(), "position %d", p)
		}
	}

	paths, err := g.EnumeratePaths(context.Background(), g.Start(), g.End(), 0)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.True(t, paths[0].Complete)
	assert.Equal(t, "AC[Carbamidomethyl]DEFGHIK", paths[0].Sequence(g).String())
}

func TestBuildOptionalOxidation(t *testing.T) {
	g := build(t, "K.ACDEFGMHIK.R", optional(t, "Oxidation", 'M', core.Everywhere))

	const mPos = 7
	for p := 0; p < g.NumPositions(); p++ {
		want := 1
		if p == mPos {
			want = 2
		}
		assert.Len(t, g.Position(p), want, "position %d", p)
	}

	paths, err := g.EnumeratePaths(context.Background(), g.Start(), g.End(), 0)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	a, b := paths[0].Sequence(g), paths[1].Sequence(g)
	for i := range a {
		if i == mPos {
			assert.False(t, a[i].Equal(b[i]))
			continue
		}
		assert.True(t, a[i].Equal(b[i]), "position %d", i)
	}
	assert.Equal(t, "ACDEFGMHIK", a.String())
	assert.Equal(t, "ACDEFGM[Oxidation]HIK", b.String())
}

func TestBuildDeterministic(t *testing.T) {
	constraints := []core.SearchModification{
		optional(t, "Acetyl", core.AnyResidue, core.PeptideNTerm),
		fixed(t, "Carbamidomethyl", 'C', core.Everywhere),
		optional(t, "Oxidation", 'M', core.Everywhere),
		optional(t, "Phospho", 'S', core.Everywhere),
		optional(t, "Amidated", core.AnyResidue, core.PeptideCTerm),
	}
	g1 := build(t, "R.MSCMSK.A", constraints...)
	g2 := build(t, "R.MSCMSK.A", constraints...)

	assert.Equal(t, g1.Vertices(), g2.Vertices())
	assert.Equal(t, g1.Edges(), g2.Edges())
	for p := 0; p < g1.NumPositions(); p++ {
		assert.Equal(t, g1.Position(p), g2.Position(p))
	}
}

func TestBuildDensityAndEdgeConservation(t *testing.T) {
	constraints := []core.SearchModification{
		optional(t, "Acetyl", core.AnyResidue, core.ProteinNTerm),
		optional(t, "Oxidation", 'M', core.Everywhere),
		optional(t, "Phospho", 'S', core.Everywhere),
		optional(t, "Phospho", 'T', core.Everywhere),
		optional(t, "Deamidated", 'N', core.Everywhere),
	}
	g := build(t, "-.MSTNMK.L", constraints...)

	a := g.Annotation()
	s, err := ComputeStates(context.Background(), a, constraints, 0)
	require.NoError(t, err)

	total := 0
	for p := 0; p < g.NumPositions(); p++ {
		ids := g.Position(p)
		require.Len(t, ids, len(s.At(p)), "position %d", p)
		for k, id := range ids {
			v, err := g.Vertex(id)
			require.NoError(t, err)
			assert.True(t, v.Combination().Equal(s.At(p)[k]))
			assert.Equal(t, a.Residue(p).Code, v.Residue.Code)
		}
		total += len(ids)
	}
	assert.Equal(t, total, g.NumVertices())

	for _, e := range g.Edges() {
		from, err := g.Vertex(e.From)
		require.NoError(t, err)
		to, err := g.Vertex(e.To)
		require.NoError(t, err)

		assert.Equal(t, from.Position+1, to.Position)
		assert.True(t, e.Residue.Equal(from.Residue))
		assert.True(t, e.Delta.Equal(from.Combination()))
		for _, m := range e.Delta {
			assert.Equal(t, 1, countMod(e.Residue.Mods, m), "%s attached once", m)
		}
	}

	// every vertex at p-1 joins every vertex at p
	for p := 1; p < g.NumPositions(); p++ {
		want := len(g.Position(p))
		for _, id := range g.Position(p - 1) {
			assert.Len(t, g.OutEdges(id), want)
		}
	}
}

func countMod(c core.Combination, m *core.Modification) int {
	n := 0
	for _, x := range c {
		if x.Equal(m) {
			n++
		}
	}
	return n
}

func TestBuildNoOrphanInteriorVertices(t *testing.T) {
	g := build(t, "K.MMSK.R",
		optional(t, "Oxidation", 'M', core.Everywhere),
		optional(t, "Phospho", 'S', core.Everywhere),
	)
	last := g.NumPositions() - 1
	for _, v := range g.Vertices() {
		if v.Position > 0 {
			assert.NotEmpty(t, g.InEdges(v.ID), "vertex %d", v.ID)
		}
		if v.Position < last {
			assert.NotEmpty(t, g.OutEdges(v.ID), "vertex %d", v.ID)
		}
	}
	assert.Empty(t, g.InEdges(g.Start()))
	assert.Empty(t, g.OutEdges(g.End()))
}

func TestBuildTerminalHandling(t *testing.T) {
	g := build(t, "K.ACK.R", optional(t, "Oxidation", 'M', core.Everywhere))

	for _, id := range []VertexID{g.Start(), g.End()} {
		v, err := g.Vertex(id)
		require.NoError(t, err)
		assert.True(t, v.Residue.IsTerminal())
		assert.Empty(t, v.Combination())
		assert.True(t, v.Residue.Composition().IsZero())
	}
	assert.Len(t, g.Starts(), 1)
	assert.Len(t, g.Ends(), 1)

	g = build(t, "K.ACK.R",
		optional(t, "Acetyl", core.AnyResidue, core.PeptideNTerm),
		fixed(t, "Amidated", core.AnyResidue, core.PeptideCTerm),
	)
	require.Len(t, g.Starts(), 2)
	require.Len(t, g.Ends(), 1)

	start, _ := g.Vertex(g.Start())
	assert.False(t, start.Residue.IsModified(), "Start is the unmodified combination")
	acetylated, _ := g.Vertex(g.Starts()[1])
	assert.Equal(t, "n[Acetyl]", acetylated.Residue.String())
	end, _ := g.Vertex(g.End())
	assert.Equal(t, "c[Amidated]", end.Residue.String())
}

func TestBuildCompositions(t *testing.T) {
	g := build(t, "K.GCA.R", fixed(t, "Carbamidomethyl", 'C', core.Everywhere))

	id, ok := g.VertexAt(2, 0)
	require.True(t, ok)
	v, err := g.Vertex(id)
	require.NoError(t, err)

	gly := core.ResidueCompositions['G']
	cys := core.ResidueCompositions['C']
	ala := core.ResidueCompositions['A']
	cam := mod(t, "Carbamidomethyl").Composition

	assert.Equal(t, gly.Add(cys).Add(cam), v.Prefix)
	assert.Equal(t, cys.Add(cam).Add(ala), v.Suffix)

	start, _ := g.Vertex(g.Start())
	end, _ := g.Vertex(g.End())
	assert.True(t, start.Prefix.IsZero())
	assert.Equal(t, gly.Add(cys).Add(ala), start.Suffix)
	assert.Equal(t, gly.Add(cys).Add(ala), end.Prefix)
	assert.True(t, end.Suffix.IsZero())
}

func TestBuildInvalidAnnotation(t *testing.T) {
	b, err := NewBuilder(testCatalog, nil)
	require.NoError(t, err)

	g, err := b.Build(context.Background(), "K.ACD")
	assert.Nil(t, g)
	var aerr *InvalidAnnotationError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "K.ACD", aerr.Annotation)
}

func TestNewBuilderRejectsInvalidConstraints(t *testing.T) {
	foreign := &core.Modification{Name: "Oxidation", Composition: core.Composition{O: 1}}

	_, err := NewBuilder(testCatalog, []core.SearchModification{{Target: 'M', Mod: foreign}})
	assert.ErrorIs(t, err, ErrInvalidConstraint)

	_, err = NewBuilder(testCatalog, []core.SearchModification{{Target: 'B', Mod: mod(t, "Oxidation")}})
	assert.ErrorIs(t, err, ErrInvalidConstraint)

	_, err = NewBuilder(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConstraint)
}

func TestBuildCancelled(t *testing.T) {
	b, err := NewBuilder(testCatalog, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, err := b.Build(ctx, "K.ACDEFGHIK.R")
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrBuildCancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildMaxCombinations(t *testing.T) {
	b, err := NewBuilder(testCatalog, []core.SearchModification{
		optional(t, "Phospho", 'S', core.Everywhere),
		optional(t, "HexNAc", 'S', core.Everywhere),
	})
	require.NoError(t, err)
	b.MaxCombinations = 2

	g, err := b.Build(context.Background(), "K.AS.R")
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrTooManyCombinations)
}

func TestValidateDetectsBrokenGraph(t *testing.T) {
	g := build(t, "K.AMK.R", optional(t, "Oxidation", 'M', core.Everywhere))

	g.edges[0].Residue = core.NewResidue('W')
	assert.ErrorIs(t, g.Validate(), ErrInvariant)

	g = build(t, "K.AMK.R", optional(t, "Oxidation", 'M', core.Everywhere))
	orphan := g.positions[2][1]
	g.in[orphan] = nil
	assert.ErrorIs(t, g.Validate(), ErrInvariant)
}
