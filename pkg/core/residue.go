package core

import (
	"strings"
)

// Terminal marker codes. Markers are synthetic residues of zero composition
// that carry terminal modifications.
const (
	NTermCode byte = 'n'
	CTermCode byte = 'c'
)

// Combination is the multiset of modifications present on one residue,
// kept sorted by name so that equal contents compare equal.
type Combination []*Modification

// NewCombination returns the canonical combination of mods.
func NewCombination(mods ...*Modification) Combination {
	if len(mods) == 0 {
		return nil
	}
	c := make(Combination, len(mods))
	copy(c, mods)
	SortModifications(c)
	return c
}

// Add returns a new combination holding c plus mod.
func (c Combination) Add(mod *Modification) Combination {
	mods := make([]*Modification, 0, len(c)+1)
	mods = append(mods, c...)
	mods = append(mods, mod)
	return NewCombination(mods...)
}

// Len returns the number of modifications, counting repeats.
func (c Combination) Len() int {
	return len(c)
}

// Key returns a string identifying the combination contents.
func (c Combination) Key() string {
	names := make([]string, len(c))
	for i, m := range c {
		names[i] = m.Name
	}
	return strings.Join(names, "\x1f")
}

// Equal compares combinations by content.
func (c Combination) Equal(o Combination) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if !c[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Contains reports whether mod occurs in c.
func (c Combination) Contains(mod *Modification) bool {
	for _, m := range c {
		if m.Equal(mod) {
			return true
		}
	}
	return false
}

// Composition returns the summed delta of the modifications.
func (c Combination) Composition() Composition {
	var comp Composition
	for _, m := range c {
		comp = comp.Add(m.Composition)
	}
	return comp
}

func (c Combination) String() string {
	if len(c) == 0 {
		return "{}"
	}
	names := make([]string, len(c))
	for i, m := range c {
		names[i] = m.Name
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Residue is an amino acid or terminal marker with the modifications attached to it.
type Residue struct {
	Code byte
	Mods Combination
}

// NewResidue returns the unmodified residue for code.
func NewResidue(code byte) Residue {
	return Residue{Code: code}
}

// NTerm returns the unmodified N-terminal marker.
func NTerm() Residue { return Residue{Code: NTermCode} }

// CTerm returns the unmodified C-terminal marker.
func CTerm() Residue { return Residue{Code: CTermCode} }

// With wraps one more modification around r.
func (r Residue) With(mod *Modification) Residue {
	return Residue{Code: r.Code, Mods: r.Mods.Add(mod)}
}

// WithCombination returns r carrying exactly the modifications of c.
func (r Residue) WithCombination(c Combination) Residue {
	return Residue{Code: r.Code, Mods: NewCombination(c...)}
}

// Unmodified returns r with all modifications removed.
func (r Residue) Unmodified() Residue {
	return Residue{Code: r.Code}
}

// IsModified reports whether r carries at least one modification.
func (r Residue) IsModified() bool {
	return len(r.Mods) > 0
}

// IsTerminal reports whether r is a terminal marker.
func (r Residue) IsTerminal() bool {
	return r.Code == NTermCode || r.Code == CTermCode
}

// Equal matches on plain residue identity when neither side is modified and
// on identity plus modifications otherwise.
func (r Residue) Equal(o Residue) bool {
	return r.Code == o.Code && r.Mods.Equal(o.Mods)
}

// Composition returns the residue composition including its modifications.
// Terminal markers contribute only their modifications.
func (r Residue) Composition() Composition {
	return ResidueCompositions[r.Code].Add(r.Mods.Composition())
}

func (r Residue) String() string {
	var b strings.Builder
	b.WriteByte(r.Code)
	for _, m := range r.Mods {
		b.WriteByte('[')
		b.WriteString(m.Name)
		b.WriteByte(']')
	}
	return b.String()
}
