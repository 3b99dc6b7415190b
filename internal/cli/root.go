package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crateport/crateport/internal/config"
	cerrors "github.com/crateport/crateport/internal/errors"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool
	minimal bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "crateport",
	Short: "Convert a DJ collection into a hardware or interchange export",
	Long:  `crateport reads a Traktor-style collection and writes a Pioneer CDJ-style export, interchange XML, M3U playlists, or a thin database-software target.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.crateportrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&minimal, "minimal", "m", false, "print only the essential value, no labels")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if minimal {
		SetOutputMode(OutputMinimal)
	}

	return nil
}

// Execute runs the root command, exiting with the code spec.md §6's error
// taxonomy maps the returned error to.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(cerrors.ExitCode(err))
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
