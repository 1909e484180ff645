package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showStates bool

var buildCmd = &cobra.Command{
	Use:   "build <annotation>",
	Short: "Build a sequence graph and summarize it",
	Long: `Build the modification graph of an annotated backbone such as K.PEPTIDE.R and
print its size and proteoform count. The flanking residues decide where
protein-terminal constraints apply: '-' marks a protein terminus.

Examples:
  seqgraph build K.ACDEFGMHIK.R
  seqgraph build --constraints mods.yaml --states -- -.MSCMK.R`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&showStates, "states", false, "Print the modification combinations at each position")
}

func runBuild(cmd *cobra.Command, args []string) error {
	g, err := buildGraph(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}

	count, err := g.CountPaths(g.Start(), g.End())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Annotation: %s\n", g.Annotation())
	fmt.Fprintf(out, "Positions:  %d\n", g.NumPositions())
	fmt.Fprintf(out, "Vertices:   %d\n", g.NumVertices())
	fmt.Fprintf(out, "Edges:      %d\n", g.NumEdges())
	fmt.Fprintf(out, "Starts:     %d\n", len(g.Starts()))
	fmt.Fprintf(out, "Ends:       %d\n", len(g.Ends()))
	fmt.Fprintf(out, "Proteoforms (start to end): %s\n", count)

	if showStates {
		states := g.States()
		for p := 0; p < states.Len(); p++ {
			fmt.Fprintf(out, "%4d %c", p, g.Annotation().Residue(p).Code)
			for _, c := range states.At(p) {
				fmt.Fprintf(out, " %s", c)
			}
			fmt.Fprintln(out)
		}
	}
	return nil
}
