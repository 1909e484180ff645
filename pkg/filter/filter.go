// Package filter provides proteoform path filtering
package filter

import (
	"fmt"
	"math"

	"github.com/ChrisMcGann/SeqGraph/pkg/core"
	"github.com/ChrisMcGann/SeqGraph/pkg/graph"
)

// Config holds filtering configuration
type Config struct {
	CompleteOnly    bool     // Drop paths that did not reach their target vertex
	MaxOptionalMods int      // Keep only paths with at most N optional modifications (0 = no limit)
	RequiredMods    []string // Keep only paths carrying every named modification (nil = all)
	PrecursorMZ     float64  // Observed precursor m/z (0 = no precursor filter)
	Charge          int      // Precursor charge state
	TolerancePPM    float64  // Precursor mass tolerance in ppm
}

// Validate checks that the precursor settings are usable.
func (c *Config) Validate() error {
	if c.PrecursorMZ == 0 {
		return nil
	}
	if c.Charge <= 0 {
		return &core.ValidationError{Field: "Charge", Message: "charge must be positive when a precursor m/z is set"}
	}
	if c.TolerancePPM <= 0 || math.IsNaN(c.TolerancePPM) {
		return &core.ValidationError{Field: "TolerancePPM", Message: "tolerance must be positive"}
	}
	return nil
}

// Apply returns the paths of g that pass all configured filters, in order.
func (c *Config) Apply(g *graph.Graph, paths []graph.Path) ([]graph.Path, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var kept []graph.Path
	for _, p := range paths {
		if c.Keep(g, p) {
			kept = append(kept, p)
		}
	}
	return kept, nil
}

// Keep reports whether a single path passes the filters.
func (c *Config) Keep(g *graph.Graph, p graph.Path) bool {
	if c.CompleteOnly && !p.Complete {
		return false
	}

	// Filter by optional modification count
	if c.MaxOptionalMods > 0 && p.OptionalModificationCount(g) > c.MaxOptionalMods {
		return false
	}

	if len(c.RequiredMods) > 0 && !hasRequiredMods(p.Modifications(g), c.RequiredMods) {
		return false
	}

	if c.PrecursorMZ > 0 {
		if ppm := c.PrecursorError(p.NeutralMass(g)); math.Abs(ppm) > c.TolerancePPM {
			return false
		}
	}
	return true
}

// hasRequiredMods checks that every required name is placed on the path
func hasRequiredMods(placed []graph.PlacedModification, required []string) bool {
	names := make(map[string]bool, len(placed))
	for _, pm := range placed {
		names[pm.Mod.Name] = true
	}
	for _, name := range required {
		if !names[name] {
			return false
		}
	}
	return true
}

// ObservedMass returns the neutral precursor mass implied by PrecursorMZ and Charge.
func (c *Config) ObservedMass() float64 {
	return (c.PrecursorMZ - core.ProtonMass) * float64(c.Charge)
}

// PrecursorError returns the error in ppm of a theoretical neutral mass
// against the observed precursor.
func (c *Config) PrecursorError(neutralMass float64) float64 {
	observed := c.ObservedMass()
	return (neutralMass - observed) / observed * 1e6
}

func (c *Config) String() string {
	s := fmt.Sprintf("complete-only=%t max-optional=%d required=%v", c.CompleteOnly, c.MaxOptionalMods, c.RequiredMods)
	if c.PrecursorMZ > 0 {
		s += fmt.Sprintf(" precursor=%.4f/%d±%.1fppm", c.PrecursorMZ, c.Charge, c.TolerancePPM)
	}
	return s
}
