// Package config loads search constraints and extra catalog entries from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ChrisMcGann/SeqGraph/pkg/core"
)

// Constraint is the serialized form of a core.SearchModification.
type Constraint struct {
	Mod      string `yaml:"mod" mapstructure:"mod"`
	Target   string `yaml:"target" mapstructure:"target"`
	Location string `yaml:"location,omitempty" mapstructure:"location"`
	Fixed    bool   `yaml:"fixed,omitempty" mapstructure:"fixed"`
}

// CatalogEntry registers an extra modification before constraints resolve.
type CatalogEntry struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Formula string `yaml:"formula" mapstructure:"formula"`
}

// File is a constraint file.
//
//	modifications:
//	  - {name: Propionyl, formula: C3H4O}
//	constraints:
//	  - {mod: Carbamidomethyl, target: C, fixed: true}
//	  - {mod: Oxidation, target: M}
//	  - {mod: Acetyl, target: "*", location: protein-n-term}
type File struct {
	Catalog     []CatalogEntry `yaml:"modifications,omitempty" mapstructure:"modifications"`
	Constraints []Constraint   `yaml:"constraints" mapstructure:"constraints"`
}

// Decode reads a constraint file. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decoding constraint file: %w", err)
	}
	return &f, nil
}

// LoadFile opens and decodes a constraint file.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open constraint file: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// Encode writes f as YAML.
func (f *File) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding constraint file: %w", err)
	}
	return enc.Close()
}

// Register adds the file's catalog entries to catalog.
func (f *File) Register(catalog *core.Catalog) error {
	for i, e := range f.Catalog {
		if err := catalog.Add(e.Name, e.Formula); err != nil {
			return fmt.Errorf("catalog entry %d (%s): %w", i, e.Name, err)
		}
	}
	return nil
}

// Resolve registers the catalog entries and resolves every constraint.
func (f *File) Resolve(catalog *core.Catalog) ([]core.SearchModification, error) {
	if err := f.Register(catalog); err != nil {
		return nil, err
	}
	return Resolve(f.Constraints, catalog)
}

// Resolve converts serialized constraints, keeping their order.
func Resolve(constraints []Constraint, catalog *core.Catalog) ([]core.SearchModification, error) {
	out := make([]core.SearchModification, 0, len(constraints))
	for i, c := range constraints {
		sm, err := c.Resolve(catalog)
		if err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
		out = append(out, sm)
	}
	return out, nil
}

// Resolve looks up the modification and parses target and location.
func (c Constraint) Resolve(catalog *core.Catalog) (core.SearchModification, error) {
	mod, ok := catalog.Lookup(c.Mod)
	if !ok {
		return core.SearchModification{}, fmt.Errorf("%w: %q", core.ErrUnknownModification, c.Mod)
	}

	target := strings.TrimSpace(c.Target)
	if target == "" {
		target = string(core.AnyResidue)
	}
	if len(target) != 1 {
		return core.SearchModification{}, &core.ValidationError{Field: "Target", Message: fmt.Sprintf("%q is not a single residue", c.Target)}
	}

	loc, err := core.ParseLocation(c.Location)
	if err != nil {
		return core.SearchModification{}, &core.ValidationError{Field: "Location", Message: err.Error()}
	}

	sm := core.SearchModification{
		Target:   strings.ToUpper(target)[0],
		Location: loc,
		Fixed:    c.Fixed,
		Mod:      mod,
	}
	if err := sm.Validate(catalog); err != nil {
		return core.SearchModification{}, err
	}
	return sm, nil
}

// FromSearchModifications is the inverse of Resolve.
func FromSearchModifications(mods []core.SearchModification) []Constraint {
	out := make([]Constraint, len(mods))
	for i, sm := range mods {
		c := Constraint{Target: string(sm.Target), Fixed: sm.Fixed}
		if sm.Mod != nil {
			c.Mod = sm.Mod.Name
		}
		if sm.Location != core.Everywhere {
			c.Location = sm.Location.String()
		}
		out[i] = c
	}
	return out
}
