// Package cmd provides CLI command implementations
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ChrisMcGann/SeqGraph/pkg/config"
	"github.com/ChrisMcGann/SeqGraph/pkg/core"
	"github.com/ChrisMcGann/SeqGraph/pkg/graph"
)

const (
	configName = ".seqgraph"
	envPrefix  = "SEQGRAPH"

	// Loaded from the working directory when catalog.csv is not configured.
	customCatalogCSV = "unimod_custom.csv"
)

var (
	// Global flags
	cfgFile         string
	constraintsFile string
	verbose         bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "seqgraph",
	Short: "SeqGraph - Modification-aware sequence graphs",
	Long: `SeqGraph builds a layered graph of every modification state of a peptide
backbone under a set of fixed and optional modification constraints.

Each path from the N-terminus to the C-terminus is one proteoform. The graph can
be used to:
- Enumerate proteoforms, optionally filtered by modification count or precursor mass
- Reconcile an observed modified sequence to its unique path
- Export vertices, edges and paths to SQLite

Constraints come from ~/.seqgraph.yaml (key "constraints") or from a YAML file
given with --constraints.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command; an interrupt cancels the running build or walk.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.seqgraph.yaml)")
	rootCmd.PersistentFlags().StringVarP(&constraintsFile, "constraints", "c", "", "YAML constraint file (overrides config constraints)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("catalog", "", "CSV of extra modifications (name,formula_or_mass)")
	rootCmd.PersistentFlags().Int("max-combinations", 0, "Maximum modification combinations per position (0 = unlimited)")

	viper.BindPFlag("catalog.csv", rootCmd.PersistentFlags().Lookup("catalog"))
	viper.BindPFlag("build.max_combinations", rootCmd.PersistentFlags().Lookup("max-combinations"))

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(enumerateCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(modsCmd)
	rootCmd.AddCommand(newConfigCmd())
}

// setup reads the config file and creates the logger
func setup(cmd *cobra.Command, args []string) error {
	if err := initConfig(); err != nil {
		return err
	}

	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	return nil
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config is fine
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// loadCatalog returns the default catalog extended with the configured CSV
func loadCatalog() (*core.Catalog, error) {
	catalog := core.DefaultCatalog()

	path := viper.GetString("catalog.csv")
	if path == "" {
		if _, err := os.Stat(customCatalogCSV); err != nil {
			return catalog, nil
		}
		path = customCatalogCSV
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog CSV: %w", err)
	}
	defer f.Close()

	if err := catalog.LoadFromCSV(f); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}
	logger.Debug("loaded catalog", zap.String("path", path), zap.Int("modifications", catalog.Len()))
	return catalog, nil
}

// loadConstraints resolves constraints from --constraints or the config file
func loadConstraints(catalog *core.Catalog) ([]core.SearchModification, error) {
	if constraintsFile != "" {
		f, err := config.LoadFile(constraintsFile)
		if err != nil {
			return nil, err
		}
		return f.Resolve(catalog)
	}

	var f config.File
	if err := viper.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decoding config constraints: %w", err)
	}
	return f.Resolve(catalog)
}

// newBuilder wires catalog, constraints and logger into a graph builder
func newBuilder() (*graph.Builder, error) {
	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	constraints, err := loadConstraints(catalog)
	if err != nil {
		return nil, err
	}

	b, err := graph.NewBuilder(catalog, constraints)
	if err != nil {
		return nil, err
	}
	b.MaxCombinations = viper.GetInt("build.max_combinations")
	b.SetLogger(logger)

	logger.Debug("builder ready", zap.Int("constraints", len(constraints)), zap.Int("max_combinations", b.MaxCombinations))
	return b, nil
}

// buildGraph builds the graph for one annotation
func buildGraph(ctx context.Context, annotation string) (*graph.Graph, error) {
	b, err := newBuilder()
	if err != nil {
		return nil, err
	}
	g, err := b.Build(ctx, annotation)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", annotation, err)
	}
	return g, nil
}
