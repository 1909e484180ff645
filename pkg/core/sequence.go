package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownModification is returned when a name is not in the catalog.
	ErrUnknownModification = errors.New("unknown modification")

	// ErrInvalidSequence is returned for malformed modified-sequence strings.
	ErrInvalidSequence = errors.New("invalid sequence")
)

// Sequence is an ordered list of residues that starts with the N-terminal
// marker and ends with the C-terminal marker.
type Sequence []Residue

// NewSequence builds an unmodified sequence from one-letter codes.
func NewSequence(body string) (Sequence, error) {
	seq := make(Sequence, 0, len(body)+2)
	seq = append(seq, NTerm())
	for i := 0; i < len(body); i++ {
		if !IsResidueCode(body[i]) {
			return nil, fmt.Errorf("%w: %q at %d is not a residue code", ErrInvalidSequence, body[i], i)
		}
		seq = append(seq, NewResidue(body[i]))
	}
	return append(seq, CTerm()), nil
}

// ParseSequence parses a modified sequence such as
// "[Acetyl]-AC[Carbamidomethyl]M[Oxidation]K-[Amidated]". Names are
// resolved against catalog. Repeated brackets chain modifications.
func ParseSequence(s string, catalog *Catalog) (Sequence, error) {
	p := seqParser{s: s, catalog: catalog}

	nterm := NTerm()
	if p.peek() == '[' {
		mods, err := p.brackets()
		if err != nil {
			return nil, err
		}
		if p.peek() != '-' {
			return nil, fmt.Errorf("%w: expected '-' after N-terminal modification in %q", ErrInvalidSequence, s)
		}
		p.i++
		nterm = nterm.WithCombination(mods)
	}

	seq := Sequence{nterm}
	for p.i < len(s) && p.peek() != '-' {
		code := s[p.i]
		if !IsResidueCode(code) {
			return nil, fmt.Errorf("%w: %q at %d is not a residue code", ErrInvalidSequence, code, p.i)
		}
		p.i++
		mods, err := p.brackets()
		if err != nil {
			return nil, err
		}
		seq = append(seq, Residue{Code: code, Mods: mods})
	}
	if len(seq) == 1 {
		return nil, fmt.Errorf("%w: empty body in %q", ErrInvalidSequence, s)
	}

	cterm := CTerm()
	if p.peek() == '-' {
		p.i++
		if p.peek() != '[' {
			return nil, fmt.Errorf("%w: expected C-terminal modification after '-' in %q", ErrInvalidSequence, s)
		}
		mods, err := p.brackets()
		if err != nil {
			return nil, err
		}
		cterm = cterm.WithCombination(mods)
	}
	if p.i != len(s) {
		return nil, fmt.Errorf("%w: trailing input %q", ErrInvalidSequence, s[p.i:])
	}

	return append(seq, cterm), nil
}

type seqParser struct {
	s       string
	i       int
	catalog *Catalog
}

func (p *seqParser) peek() byte {
	if p.i >= len(p.s) {
		return 0
	}
	return p.s[p.i]
}

// brackets consumes zero or more "[Name]" groups.
func (p *seqParser) brackets() (Combination, error) {
	var mods []*Modification
	for p.peek() == '[' {
		end := strings.IndexByte(p.s[p.i:], ']')
		if end < 0 {
			return nil, fmt.Errorf("%w: unclosed '[' at %d", ErrInvalidSequence, p.i)
		}
		name := p.s[p.i+1 : p.i+end]
		mod, ok := p.catalog.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownModification, name)
		}
		mods = append(mods, mod)
		p.i += end + 1
	}
	return NewCombination(mods...), nil
}

// Body returns the residues between the terminal markers.
func (s Sequence) Body() Sequence {
	if len(s) < 2 {
		return nil
	}
	return s[1 : len(s)-1]
}

// Backbone returns the unmodified one-letter sequence.
func (s Sequence) Backbone() string {
	var b strings.Builder
	for _, r := range s.Body() {
		b.WriteByte(r.Code)
	}
	return b.String()
}

// Equal compares two sequences residue by residue.
func (s Sequence) Equal(o Sequence) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !s[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Composition returns the elemental composition of the peptide, water included.
func (s Sequence) Composition() Composition {
	comp := Water
	for _, r := range s {
		comp = comp.Add(r.Composition())
	}
	return comp
}

// NeutralMass computes the neutral monoisotopic mass of the peptide
func (s Sequence) NeutralMass() float64 {
	return s.Composition().Mass()
}

// ModificationCount returns the number of modifications across all residues.
func (s Sequence) ModificationCount() int {
	n := 0
	for _, r := range s {
		n += len(r.Mods)
	}
	return n
}

func (s Sequence) String() string {
	if len(s) < 2 {
		return ""
	}
	var b strings.Builder
	if nterm := s[0]; nterm.IsModified() {
		b.WriteString(strings.TrimPrefix(nterm.String(), string(NTermCode)))
		b.WriteByte('-')
	}
	for _, r := range s.Body() {
		b.WriteString(r.String())
	}
	if cterm := s[len(s)-1]; cterm.IsModified() {
		b.WriteByte('-')
		b.WriteString(strings.TrimPrefix(cterm.String(), string(CTermCode)))
	}
	return b.String()
}

// Ladder holds neutral b and y fragment masses; B[i] and Y[i] cover i+1 residues.
type Ladder struct {
	B []float64
	Y []float64
}

// FragmentLadder computes neutral b/y fragment masses. The N-terminal marker
// counts toward every b ion and the C-terminal marker toward every y ion.
func (s Sequence) FragmentLadder() Ladder {
	body := s.Body()
	if len(body) < 2 {
		return Ladder{}
	}
	n := len(body) - 1
	l := Ladder{B: make([]float64, n), Y: make([]float64, n)}

	prefix := s[0].Composition()
	for i := 0; i < n; i++ {
		prefix = prefix.Add(body[i].Composition())
		l.B[i] = prefix.Mass()
	}

	suffix := Water.Add(s[len(s)-1].Composition())
	for i := 0; i < n; i++ {
		suffix = suffix.Add(body[len(body)-1-i].Composition())
		l.Y[i] = suffix.Mass()
	}
	return l
}
