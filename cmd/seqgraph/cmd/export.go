package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ChrisMcGann/SeqGraph/pkg/graph"
	"github.com/ChrisMcGann/SeqGraph/pkg/writer/sqlite"
)

var (
	// Flags for export command
	outputFile  string
	exportPaths bool
)

var exportCmd = &cobra.Command{
	Use:   "export <annotation>...",
	Short: "Export sequence graphs to an SQLite database",
	Long: `Build one graph per annotation and write its vertices and edges to SQLite.
With --paths, the proteoforms between every start and end state are written
too, subject to the enumerate limit.

Examples:
  seqgraph export K.ACDEFGMHIK.R --out graphs.db
  seqgraph export --out graphs.db --paths -- K.MSCMK.R -.MKR.-`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output database file (required)")
	exportCmd.Flags().BoolVar(&exportPaths, "paths", false, "Also write enumerated paths")
	exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	b, err := newBuilder()
	if err != nil {
		return err
	}

	writer, err := sqlite.NewWriter(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output database: %w", err)
	}
	defer writer.Close()

	limit := viper.GetInt("enumerate.limit")
	for _, annotation := range args {
		g, err := b.Build(cmd.Context(), annotation)
		if err != nil {
			return fmt.Errorf("building %s: %w", annotation, err)
		}
		if _, err := writer.WriteGraph(g); err != nil {
			return err
		}

		written := 0
		if exportPaths {
			for _, pair := range endpoints(g, true) {
				err := g.Walk(cmd.Context(), pair[0], pair[1], func(p graph.Path) error {
					if !p.Complete {
						return nil
					}
					if limit > 0 && written >= limit {
						return graph.ErrPathLimitExceeded
					}
					written++
					return writer.WritePath(g, p)
				})
				if errors.Is(err, graph.ErrPathLimitExceeded) {
					logger.Warn("path limit reached", zap.String("annotation", annotation), zap.Int("limit", limit))
					break
				}
				if err != nil {
					return err
				}
			}
		}

		logger.Info("exported graph",
			zap.String("annotation", annotation),
			zap.Int("vertices", g.NumVertices()),
			zap.Int("edges", g.NumEdges()),
			zap.Int("paths", written))
	}

	if err := writer.Finalize(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d graph(s) to %s\n", len(args), outputFile)
	return nil
}
