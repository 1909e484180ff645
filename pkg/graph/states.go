package graph

import (
	"context"
	"fmt"

	"github.com/ChrisMcGann/SeqGraph/pkg/core"
)

// States is the per-position table of legal modification combinations.
// At(p)[k] is the combination carried by the vertex with index k at position p.
type States struct {
	combos [][]core.Combination
	fixed  []core.Combination
}

// Len returns the number of positions.
func (s *States) Len() int { return len(s.combos) }

// At returns the combinations legal at position p, in vertex index order.
func (s *States) At(p int) []core.Combination {
	return s.combos[p]
}

// Fixed returns the fixed modifications every combination at p carries.
func (s *States) Fixed(p int) core.Combination {
	return s.fixed[p]
}

// ComputeStates derives the combination table for a backbone. maxCombos
// bounds the combinations at any one position; zero means unbounded.
func ComputeStates(ctx context.Context, a Annotation, constraints []core.SearchModification, maxCombos int) (*States, error) {
	n := a.NumPositions()
	s := &States{
		combos: make([][]core.Combination, n),
		fixed:  make([]core.Combination, n),
	}

	for p := 0; p < n; p++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildCancelled, err)
		}
		applicable := applicableConstraints(a, p, constraints)
		combos, fixed, err := combinations(applicable, maxCombos)
		if err != nil {
			return nil, fmt.Errorf("position %d (%s): %w", p, a.Residue(p), err)
		}
		s.combos[p] = combos
		s.fixed[p] = fixed
	}
	return s, nil
}

// applicableConstraints returns the constraints that attach to position p,
// in declaration order. Of the terminal constraints attaching to one
// position only the first declared is kept.
func applicableConstraints(a Annotation, p int, constraints []core.SearchModification) []core.SearchModification {
	var out []core.SearchModification
	terminalTaken := false
	for _, c := range constraints {
		if !attaches(a, p, c) {
			continue
		}
		if c.Location.IsTerminal() {
			if terminalTaken {
				continue
			}
			terminalTaken = true
		}
		out = append(out, c)
	}
	return out
}

// attaches reports whether constraint c applies at position p.
func attaches(a Annotation, p int, c core.SearchModification) bool {
	n := a.NumPositions()
	last := n - 1
	code := a.Residue(p).Code

	switch c.Location {
	case core.Everywhere:
		return p > 0 && p < last && c.Matches(code)
	case core.ProteinNTerm:
		if !a.ProteinNTerm() {
			return false
		}
	case core.ProteinCTerm:
		if !a.ProteinCTerm() {
			return false
		}
	case core.PeptideNTerm, core.PeptideCTerm:
	default:
		return false
	}

	if c.Location.IsNTerm() {
		if c.Target == core.AnyResidue {
			return p == 0
		}
		return p == 1 && code == c.Target
	}
	if c.Target == core.AnyResidue {
		return p == last
	}
	return p == last-1 && code == c.Target
}

// combinations expands applicable constraints into canonical, de-duplicated
// combinations. Fixed modifications are in every combination; each optional
// one doubles the set. The combination without optional modifications is first.
func combinations(applicable []core.SearchModification, maxCombos int) ([]core.Combination, core.Combination, error) {
	var base []*core.Modification
	for _, c := range applicable {
		if c.Fixed {
			base = append(base, c.Mod)
		}
	}
	fixed := core.NewCombination(base...)

	combos := []core.Combination{fixed}
	seen := map[string]bool{fixed.Key(): true}
	for _, c := range applicable {
		if c.Fixed {
			continue
		}
		n := len(combos)
		for i := 0; i < n; i++ {
			next := combos[i].Add(c.Mod)
			if key := next.Key(); !seen[key] {
				seen[key] = true
				combos = append(combos, next)
			}
		}
		if maxCombos > 0 && len(combos) > maxCombos {
			return nil, nil, fmt.Errorf("%w: more than %d", ErrTooManyCombinations, maxCombos)
		}
	}
	return combos, fixed, nil
}
