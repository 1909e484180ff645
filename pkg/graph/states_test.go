package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/SeqGraph/pkg/core"
)

var testCatalog = core.DefaultCatalog()

func mod(t *testing.T, name string) *core.Modification {
	t.Helper()
	m, ok := testCatalog.Lookup(name)
	require.True(t, ok, "catalog has no %s", name)
	return m
}

func optional(t *testing.T, name string, target byte, loc core.Location) core.SearchModification {
	return core.SearchModification{Target: target, Location: loc, Mod: mod(t, name)}
}

func fixed(t *testing.T, name string, target byte, loc core.Location) core.SearchModification {
	sm := optional(t, name, target, loc)
	sm.Fixed = true
	return sm
}

func states(t *testing.T, annotation string, constraints ...core.SearchModification) *States {
	t.Helper()
	a, err := ParseAnnotation(annotation)
	require.NoError(t, err)
	s, err := ComputeStates(context.Background(), a, constraints, 0)
	require.NoError(t, err)
	return s
}

func keys(combos []core.Combination) []string {
	out := make([]string, len(combos))
	for i, c := range combos {
		out[i] = c.String()
	}
	return out
}

func TestStatesEmptyCombinationEverywhere(t *testing.T) {
	s := states(t, "K.ACDK.R")
	require.Equal(t, 6, s.Len())
	for p := 0; p < s.Len(); p++ {
		assert.Equal(t, []string{"{}"}, keys(s.At(p)), "position %d", p)
	}
}

func TestStatesFixedAndOptional(t *testing.T) {
	s := states(t, "K.SCMK.R",
		fixed(t, "Carbamidomethyl", 'C', core.Everywhere),
		optional(t, "Oxidation", 'M', core.Everywhere),
		optional(t, "Phospho", 'S', core.Everywhere),
		optional(t, "Phospho", 'T', core.Everywhere),
	)

	assert.Equal(t, []string{"{}", "{Phospho}"}, keys(s.At(1)))
	assert.Equal(t, []string{"{Carbamidomethyl}"}, keys(s.At(2)))
	assert.Equal(t, []string{"{}", "{Oxidation}"}, keys(s.At(3)))
	assert.Equal(t, []string{"{}"}, keys(s.At(4)))
	assert.Equal(t, "{Carbamidomethyl}", s.Fixed(2).String())
	assert.Equal(t, "{}", s.Fixed(3).String())
}

func TestStatesCartesianAndCanonical(t *testing.T) {
	s := states(t, "K.S.R",
		optional(t, "Phospho", 'S', core.Everywhere),
		optional(t, "HexNAc", 'S', core.Everywhere),
		optional(t, "Phospho", core.AnyResidue, core.Everywhere),
	)

	// The wildcard Phospho adds the repeated multiset {Phospho,Phospho};
	// {HexNAc,Phospho} reached twice is kept once.
	assert.Equal(t, []string{
		"{}",
		"{Phospho}",
		"{HexNAc}",
		"{HexNAc,Phospho}",
		"{Phospho,Phospho}",
		"{HexNAc,Phospho,Phospho}",
	}, keys(s.At(1)))
}

func TestStatesTerminalAttachment(t *testing.T) {
	acetylN := optional(t, "Acetyl", core.AnyResidue, core.PeptideNTerm)
	amidC := optional(t, "Amidated", core.AnyResidue, core.PeptideCTerm)
	pyroQ := optional(t, "Gln->pyro-Glu", 'Q', core.PeptideNTerm)
	protAc := fixed(t, "Acetyl", core.AnyResidue, core.ProteinNTerm)
	metLoss := optional(t, "Met-loss", 'M', core.ProteinNTerm)

	tests := []struct {
		name        string
		annotation  string
		constraints []core.SearchModification
		position    int
		want        []string
	}{
		{"peptide N-term marker", "K.QACK.R", []core.SearchModification{acetylN}, 0, []string{"{}", "{Acetyl}"}},
		{"peptide C-term marker", "K.QACK.R", []core.SearchModification{amidC}, 5, []string{"{}", "{Amidated}"}},
		{"residue-specific N-term", "K.QACK.R", []core.SearchModification{pyroQ}, 1, []string{"{}", "{Gln->pyro-Glu}"}},
		{"residue-specific N-term miss", "K.AQCK.R", []core.SearchModification{pyroQ}, 2, []string{"{}"}},
		{"protein N-term without delimiter", "K.MACK.R", []core.SearchModification{protAc}, 0, []string{"{}"}},
		{"protein N-term with delimiter", "-.MACK.R", []core.SearchModification{protAc}, 0, []string{"{Acetyl}"}},
		{"protein N-term residue", "-.MACK.R", []core.SearchModification{metLoss}, 1, []string{"{}", "{Met-loss}"}},
		{"peptide N-term also at protein N-term", "-.MACK.R", []core.SearchModification{acetylN}, 0, []string{"{}", "{Acetyl}"}},
		{"terminal constraint not in interior", "K.QAQK.R", []core.SearchModification{pyroQ}, 3, []string{"{}"}},
		{"everywhere excludes markers", "K.ACK.R", []core.SearchModification{optional(t, "Oxidation", core.AnyResidue, core.Everywhere)}, 0, []string{"{}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := states(t, tt.annotation, tt.constraints...)
			assert.Equal(t, tt.want, keys(s.At(tt.position)))
		})
	}
}

func TestStatesTerminalFirstMatchWins(t *testing.T) {
	s := states(t, "K.ACK.R",
		optional(t, "Acetyl", core.AnyResidue, core.PeptideNTerm),
		optional(t, "Formyl", core.AnyResidue, core.PeptideNTerm),
	)
	assert.Equal(t, []string{"{}", "{Acetyl}"}, keys(s.At(0)))

	s = states(t, "K.ACK.R",
		optional(t, "Formyl", core.AnyResidue, core.PeptideNTerm),
		optional(t, "Acetyl", core.AnyResidue, core.PeptideNTerm),
	)
	assert.Equal(t, []string{"{}", "{Formyl}"}, keys(s.At(0)))

	// Everywhere constraints still combine with the winning terminal one.
	s = states(t, "K.QCK.R",
		optional(t, "Gln->pyro-Glu", 'Q', core.PeptideNTerm),
		optional(t, "Deamidated", 'Q', core.PeptideNTerm),
		optional(t, "Deamidated", 'Q', core.Everywhere),
	)
	assert.Equal(t, []string{"{}", "{Gln->pyro-Glu}", "{Deamidated}", "{Deamidated,Gln->pyro-Glu}"}, keys(s.At(1)))
}

func TestStatesMaxCombinations(t *testing.T) {
	a, err := ParseAnnotation("K.ASK.R")
	require.NoError(t, err)

	constraints := []core.SearchModification{
		optional(t, "Phospho", 'S', core.Everywhere),
		optional(t, "HexNAc", 'S', core.Everywhere),
		optional(t, "Sulfo", 'S', core.Everywhere),
	}
	_, err = ComputeStates(context.Background(), a, constraints, 4)
	require.ErrorIs(t, err, ErrTooManyCombinations)
	assert.Contains(t, err.Error(), "position 2")

	s, err := ComputeStates(context.Background(), a, constraints, 8)
	require.NoError(t, err)
	assert.Len(t, s.At(2), 8)
}

func TestStatesCancelled(t *testing.T) {
	a, err := ParseAnnotation("K.ACK.R")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ComputeStates(ctx, a, nil, 0)
	assert.ErrorIs(t, err, ErrBuildCancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
