// Package core provides modification parsing and management
package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ErrInvalidFormula is returned when an elemental formula cannot be parsed.
var ErrInvalidFormula = errors.New("invalid formula")

// Modification is an immutable named composition delta. Two modifications
// are the same modification when their names match.
type Modification struct {
	Name        string
	Composition Composition
}

// Mass returns the monoisotopic mass shift of the modification.
func (m *Modification) Mass() float64 {
	return m.Composition.Mass()
}

// Equal compares modifications by name.
func (m *Modification) Equal(o *Modification) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.Name == o.Name
}

func (m *Modification) String() string {
	return m.Name
}

// Catalog stores the modification definitions available to graph builds.
// It is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	mods  map[string]*Modification
	order []string
}

// NewCatalog creates an empty modification catalog
func NewCatalog() *Catalog {
	return &Catalog{
		mods: make(map[string]*Modification),
	}
}

// Register adds or replaces a modification. Graphs built earlier keep the
// definition they were built with.
func (c *Catalog) Register(mod *Modification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.mods[mod.Name]; !ok {
		c.order = append(c.order, mod.Name)
	}
	c.mods[mod.Name] = mod
}

// Add registers a modification from a formula ("C2H3NO") or a raw mass ("21.981943").
func (c *Catalog) Add(name, formulaOrMass string) error {
	comp, err := ParseFormula(formulaOrMass)
	if err != nil {
		return fmt.Errorf("modification %q: %w", name, err)
	}
	c.Register(&Modification{Name: name, Composition: comp})
	return nil
}

// Lookup returns the modification registered under name
func (c *Catalog) Lookup(name string) (*Modification, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	mod, ok := c.mods[name]
	return mod, ok
}

// Contains reports whether mod is the definition currently registered under its name.
func (c *Catalog) Contains(mod *Modification) bool {
	if mod == nil {
		return false
	}
	registered, ok := c.Lookup(mod.Name)
	return ok && registered == mod
}

// Names returns registered names in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Len returns the number of registered modifications.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mods)
}

// LoadFromCSV loads modifications from a CSV file (format: name,formula_or_mass)
func (c *Catalog) LoadFromCSV(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	// Skip header line
	if !scanner.Scan() {
		return scanner.Err()
	}

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			return fmt.Errorf("line %d: invalid format, expected at least 2 comma-separated fields", lineNum)
		}

		name := strings.TrimSpace(parts[0])
		if name == "" {
			return fmt.Errorf("line %d: empty modification name", lineNum)
		}
		if err := c.Add(name, strings.TrimSpace(parts[1])); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading CSV: %w", err)
	}

	return nil
}

// ParseFormula parses an elemental delta such as "C2H3NO" or "H-1N-1O".
// A plain number is taken as a raw mass shift.
func ParseFormula(s string) (Composition, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Composition{}, fmt.Errorf("%w: empty", ErrInvalidFormula)
	}
	if mass, err := strconv.ParseFloat(s, 64); err == nil {
		return Composition{Offset: mass}, nil
	}

	var comp Composition
	i := 0
	for i < len(s) {
		if s[i] < 'A' || s[i] > 'Z' {
			return Composition{}, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidFormula, s[i], s)
		}
		sym := s[i : i+1]
		i++
		if i < len(s) && s[i] >= 'a' && s[i] <= 'z' {
			sym = s[i-1 : i+1]
			i++
		}

		start := i
		if i < len(s) && s[i] == '-' {
			i++
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		count := 1
		if num := s[start:i]; num != "" {
			n, err := strconv.Atoi(num)
			if err != nil {
				return Composition{}, fmt.Errorf("%w: bad count %q for %s", ErrInvalidFormula, num, sym)
			}
			count = n
		}

		switch sym {
		case "C":
			comp.C += count
		case "H":
			comp.H += count
		case "N":
			comp.N += count
		case "O":
			comp.O += count
		case "S":
			comp.S += count
		case "P":
			comp.P += count
		default:
			return Composition{}, fmt.Errorf("%w: unsupported element %s", ErrInvalidFormula, sym)
		}
	}
	return comp, nil
}

// SortModifications sorts mods by name, the canonical order for combinations.
func SortModifications(mods []*Modification) {
	sort.SliceStable(mods, func(i, j int) bool {
		return mods[i].Name < mods[j].Name
	})
}

// DefaultCatalog returns a Catalog pre-loaded with common modifications
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	// Common modifications from unimod; isotope-labelled tags and
	// non-CHNOPS adducts are carried as raw masses.
	for _, m := range []struct{ name, formula string }{
		{"Acetyl", "C2H2O"},
		{"Amidated", "HNO-1"},
		{"Biotin", "C10H14N2O2S"},
		{"Carbamidomethyl", "C2H3NO"},
		{"Carbamyl", "CHNO"},
		{"Carboxymethyl", "C2H2O2"},
		{"Deamidated", "H-1N-1O"},
		{"Dehydrated", "H-2O-1"},
		{"Formyl", "CO"},
		{"Gln->pyro-Glu", "H-3N-1"},
		{"Glu->pyro-Glu", "H-2O-1"},
		{"GlyGly", "C4H6N2O2"},
		{"Hex", "C6H10O5"},
		{"HexNAc", "C8H13NO5"},
		{"Methyl", "CH2"},
		{"Dimethyl", "C2H4"},
		{"Trimethyl", "C3H6"},
		{"Methylthio", "CH2S"},
		{"Met-loss", "C-5H-9N-1O-1S-1"},
		{"Myristoyl", "C14H26O"},
		{"Nitro", "H-1NO2"},
		{"Oxidation", "O"},
		{"Palmitoyl", "C16H30O"},
		{"Phospho", "HO3P"},
		{"Propionyl", "C3H4O"},
		{"Succinyl", "C4H4O3"},
		{"Sulfo", "O3S"},
		{"Cation:Na", "21.981943"},
		{"iTRAQ4plex", "144.102063"},
		{"iTRAQ8plex", "304.205360"},
		{"TMT6plex", "229.162932"},
		{"TMTpro", "304.207146"},
	} {
		if err := c.Add(m.name, m.formula); err != nil {
			panic(err)
		}
	}

	return c
}
