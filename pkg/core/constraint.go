package core

import (
	"fmt"
	"strings"
)

// AnyResidue is the wildcard target of a SearchModification.
const AnyResidue byte = '*'

// Location constrains where along the sequence a modification may occur.
type Location int

const (
	Everywhere Location = iota
	PeptideNTerm
	PeptideCTerm
	ProteinNTerm
	ProteinCTerm
)

var locationNames = [...]string{
	Everywhere:   "Everywhere",
	PeptideNTerm: "PeptideNTerm",
	PeptideCTerm: "PeptideCTerm",
	ProteinNTerm: "ProteinNTerm",
	ProteinCTerm: "ProteinCTerm",
}

func (l Location) String() string {
	if l < 0 || int(l) >= len(locationNames) {
		return fmt.Sprintf("Location(%d)", int(l))
	}
	return locationNames[l]
}

// IsTerminal reports whether the location anchors to a terminus.
func (l Location) IsTerminal() bool {
	return l != Everywhere
}

// IsNTerm reports whether the location anchors to the N-terminus.
func (l Location) IsNTerm() bool {
	return l == PeptideNTerm || l == ProteinNTerm
}

// ParseLocation parses a location name, case-insensitively. An empty string
// or "anywhere" means Everywhere.
func ParseLocation(s string) (Location, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "everywhere", "anywhere":
		return Everywhere, nil
	case "peptidenterm", "peptide-n-term", "n-term":
		return PeptideNTerm, nil
	case "peptidecterm", "peptide-c-term", "c-term":
		return PeptideCTerm, nil
	case "proteinnterm", "protein-n-term":
		return ProteinNTerm, nil
	case "proteincterm", "protein-c-term":
		return ProteinCTerm, nil
	}
	return 0, fmt.Errorf("unknown location %q", s)
}

// SearchModification states that Mod may (or, when Fixed, must) occur on
// Target at Location.
type SearchModification struct {
	Target   byte
	Location Location
	Fixed    bool
	Mod      *Modification
}

// Matches reports whether the constraint targets residue code.
func (s SearchModification) Matches(code byte) bool {
	return s.Target == AnyResidue || s.Target == code
}

func (s SearchModification) String() string {
	kind := "optional"
	if s.Fixed {
		kind = "fixed"
	}
	name := "<nil>"
	if s.Mod != nil {
		name = s.Mod.Name
	}
	return fmt.Sprintf("%s@%c(%s,%s)", name, s.Target, s.Location, kind)
}

// Validate checks the constraint against the catalog it will be built with.
func (s SearchModification) Validate(catalog *Catalog) error {
	if s.Mod == nil {
		return &ValidationError{Field: "Mod", Message: "modification is required"}
	}
	if !catalog.Contains(s.Mod) {
		return &ValidationError{Field: "Mod", Message: fmt.Sprintf("%q is not registered in the catalog", s.Mod.Name)}
	}
	if s.Target != AnyResidue && !IsResidueCode(s.Target) {
		return &ValidationError{Field: "Target", Message: fmt.Sprintf("%q is not a residue code", s.Target)}
	}
	if s.Location < Everywhere || s.Location > ProteinCTerm {
		return &ValidationError{Field: "Location", Message: s.Location.String()}
	}
	return nil
}
