package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/SeqGraph/pkg/core"
)

var showLadder bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <annotation> <sequence>",
	Short: "Map an observed modified sequence onto its graph path",
	Long: `Reconcile walks the graph backward from the end state matching the observed
sequence and prints the vertices of the unique path it follows. A sequence the
graph cannot express yields a partial path.

Sequences use bracketed modification names, with terminal modifications
attached by '-':

  [Acetyl]-AC[Carbamidomethyl]M[Oxidation]K-[Amidated]

Examples:
  seqgraph reconcile K.ACDMK.R "AC[Carbamidomethyl]DM[Oxidation]K"
  seqgraph reconcile K.ACDMK.R "AC[Carbamidomethyl]DMK" --ladder`,
	Args: cobra.ExactArgs(2),
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&showLadder, "ladder", false, "Print b/y fragment masses of the reconciled sequence")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	b, err := newBuilder()
	if err != nil {
		return err
	}
	g, err := b.Build(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("building %s: %w", args[0], err)
	}

	target, err := core.ParseSequence(args[1], b.Catalog())
	if err != nil {
		return err
	}

	p, err := g.ReconcileSequence(target)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	status := "complete"
	if !p.Complete {
		status = "partial"
	}
	fmt.Fprintf(out, "Match:    %s (%d of %d positions)\n", status, p.Len(), g.NumPositions())
	fmt.Fprintf(out, "Vertices: %v\n", p.Vertices)
	if p.Len() == 0 {
		return nil
	}

	seq := p.Sequence(g)
	fmt.Fprintf(out, "Path:     %s\n", seq)
	for _, pm := range p.Modifications(g) {
		fmt.Fprintf(out, "  %3d %c %s\n", pm.Position, pm.Residue, pm.Mod)
	}

	if showLadder && p.Complete {
		ladder := seq.FragmentLadder()
		fmt.Fprintf(out, "%4s %12s %12s\n", "n", "b", "y")
		for i := range ladder.B {
			fmt.Fprintf(out, "%4d %12.5f %12.5f\n", i+1, ladder.B[i], ladder.Y[i])
		}
	}
	return nil
}
