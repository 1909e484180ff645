// SeqGraph - Modification-aware sequence graphs for proteoforms
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/SeqGraph/cmd/seqgraph/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
