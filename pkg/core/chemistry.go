// Package core provides chemistry calculations for peptide mass calculations
package core

import (
	"fmt"
	"math"
	"strings"
)

// Atomic masses (monoisotopic)
const (
	MassH = 1.0078250321
	MassC = 12.0000000000
	MassN = 14.0030740052
	MassO = 15.9949146221
	MassS = 31.9720706900
	MassP = 30.9737615100

	// Proton mass for charge calculations
	ProtonMass = 1.00727646688
)

// Composition stores an elemental composition. Offset carries a raw mass
// shift for modifications whose formula is unknown.
type Composition struct {
	C, H, N, O, S, P int
	Offset           float64
}

// Water is the composition added to a residue chain to form a peptide.
var Water = Composition{H: 2, O: 1}

// ResidueCompositions maps amino acid one-letter codes to elemental composition
var ResidueCompositions = map[byte]Composition{
	'A': {C: 3, H: 5, N: 1, O: 1},
	'R': {C: 6, H: 12, N: 4, O: 1},
	'N': {C: 4, H: 6, N: 2, O: 2},
	'D': {C: 4, H: 5, N: 1, O: 3},
	'C': {C: 3, H: 5, N: 1, O: 1, S: 1},
	'E': {C: 5, H: 7, N: 1, O: 3},
	'Q': {C: 5, H: 8, N: 2, O: 2},
	'G': {C: 2, H: 3, N: 1, O: 1},
	'H': {C: 6, H: 7, N: 3, O: 1},
	'I': {C: 6, H: 11, N: 1, O: 1},
	'L': {C: 6, H: 11, N: 1, O: 1},
	'K': {C: 6, H: 12, N: 2, O: 1},
	'M': {C: 5, H: 9, N: 1, O: 1, S: 1},
	'F': {C: 9, H: 9, N: 1, O: 1},
	'P': {C: 5, H: 7, N: 1, O: 1},
	'S': {C: 3, H: 5, N: 1, O: 2},
	'T': {C: 4, H: 7, N: 1, O: 2},
	'W': {C: 11, H: 10, N: 2, O: 1},
	'Y': {C: 9, H: 9, N: 1, O: 2},
	'V': {C: 5, H: 9, N: 1, O: 1},
}

// IsResidueCode reports whether code is one of the standard amino acids.
func IsResidueCode(code byte) bool {
	_, ok := ResidueCompositions[code]
	return ok
}

// Add returns c + o.
func (c Composition) Add(o Composition) Composition {
	return Composition{
		C:      c.C + o.C,
		H:      c.H + o.H,
		N:      c.N + o.N,
		O:      c.O + o.O,
		S:      c.S + o.S,
		P:      c.P + o.P,
		Offset: c.Offset + o.Offset,
	}
}

// Sub returns c - o.
func (c Composition) Sub(o Composition) Composition {
	return Composition{
		C:      c.C - o.C,
		H:      c.H - o.H,
		N:      c.N - o.N,
		O:      c.O - o.O,
		S:      c.S - o.S,
		P:      c.P - o.P,
		Offset: c.Offset - o.Offset,
	}
}

// IsZero reports whether the composition carries no atoms and no offset.
func (c Composition) IsZero() bool {
	return c == Composition{}
}

// Mass returns the monoisotopic mass of the composition.
func (c Composition) Mass() float64 {
	return float64(c.C)*MassC +
		float64(c.H)*MassH +
		float64(c.N)*MassN +
		float64(c.O)*MassO +
		float64(c.S)*MassS +
		float64(c.P)*MassP +
		c.Offset
}

// String renders the composition in Hill order, e.g. "C2H3NO".
func (c Composition) String() string {
	var b strings.Builder
	for _, e := range []struct {
		sym string
		n   int
	}{{"C", c.C}, {"H", c.H}, {"N", c.N}, {"O", c.O}, {"P", c.P}, {"S", c.S}} {
		switch e.n {
		case 0:
		case 1:
			b.WriteString(e.sym)
		default:
			fmt.Fprintf(&b, "%s%d", e.sym, e.n)
		}
	}
	if c.Offset != 0 {
		fmt.Fprintf(&b, "%+.6f", c.Offset)
	}
	return b.String()
}

// MZ converts a neutral mass to m/z: (mass + charge * proton) / charge
func MZ(neutralMass float64, charge int) float64 {
	return (neutralMass + float64(charge)*ProtonMass) / float64(charge)
}

// RoundFloat rounds a float to n decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
