package graph

import (
	"regexp"

	"github.com/ChrisMcGann/SeqGraph/pkg/core"
)

// ProteinDelimiter marks a flank that is the protein terminus.
const ProteinDelimiter byte = '-'

var (
	flankedPattern = regexp.MustCompile(`^([A-Z-])\.([A-Z]+)\.([A-Z-])$`)
	barePattern    = regexp.MustCompile(`^[A-Z]+$`)
)

// Annotation is a backbone with its flanking residues. A flank equal to
// ProteinDelimiter means the body reaches that protein terminus.
type Annotation struct {
	Prev byte
	Body string
	Next byte
}

// ParseAnnotation parses "K.PEPTIDEK.R", "-.MPEPTIDE.-" or a bare protein
// sequence, which is treated as spanning both protein termini.
func ParseAnnotation(s string) (Annotation, error) {
	var a Annotation
	switch {
	case barePattern.MatchString(s):
		a = Annotation{Prev: ProteinDelimiter, Body: s, Next: ProteinDelimiter}
	default:
		m := flankedPattern.FindStringSubmatch(s)
		if m == nil {
			return Annotation{}, &InvalidAnnotationError{Annotation: s, Reason: `expected "X.SEQUENCE.X"`}
		}
		a = Annotation{Prev: m[1][0], Body: m[2], Next: m[3][0]}
	}

	for _, flank := range []byte{a.Prev, a.Next} {
		if flank != ProteinDelimiter && !core.IsResidueCode(flank) {
			return Annotation{}, &InvalidAnnotationError{Annotation: s, Reason: "flank " + string(flank) + " is not a residue code"}
		}
	}
	for i := 0; i < len(a.Body); i++ {
		if !core.IsResidueCode(a.Body[i]) {
			return Annotation{}, &InvalidAnnotationError{Annotation: s, Reason: "body contains " + string(a.Body[i])}
		}
	}
	return a, nil
}

// ProteinNTerm reports whether the body starts at the protein N-terminus.
func (a Annotation) ProteinNTerm() bool { return a.Prev == ProteinDelimiter }

// ProteinCTerm reports whether the body ends at the protein C-terminus.
func (a Annotation) ProteinCTerm() bool { return a.Next == ProteinDelimiter }

// NumPositions is the body length plus the two terminal markers.
func (a Annotation) NumPositions() int { return len(a.Body) + 2 }

// Residue returns the unmodified residue at graph position p.
func (a Annotation) Residue(p int) core.Residue {
	switch p {
	case 0:
		return core.NTerm()
	case a.NumPositions() - 1:
		return core.CTerm()
	}
	return core.NewResidue(a.Body[p-1])
}

func (a Annotation) String() string {
	return string(a.Prev) + "." + a.Body + "." + string(a.Next)
}
