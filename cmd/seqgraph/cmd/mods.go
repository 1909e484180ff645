package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var modsCmd = &cobra.Command{
	Use:   "mods",
	Short: "List the modification catalog",
	Long: `List every modification known to the catalog: the built-in definitions plus
those loaded from catalog.csv (or ./unimod_custom.csv) and the constraint file.`,
	Args: cobra.NoArgs,
	RunE: runMods,
}

func runMods(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	if _, err := loadConstraints(catalog); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFORMULA\tMASS")
	for _, name := range catalog.Names() {
		mod, _ := catalog.Lookup(name)
		fmt.Fprintf(tw, "%s\t%s\t%.6f\n", mod.Name, mod.Composition, mod.Mass())
	}
	return tw.Flush()
}
