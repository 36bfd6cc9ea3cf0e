package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	jsonOutput bool
)

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "plat",
		Short: "OpenPlat - Platform Component Metadata Toolkit",
		Long: `OpenPlat manages platform component metadata: the resources components
own, consume and share, and the order they must be brought up in.

Features:
  - Typed component manifests via CUE and YAML
  - Component validation with precise diagnostics
  - Staged resource initialization (init, service, test)
  - Policy enforcement (OPA/rego)
  - Dependency-ordered resource graphs`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newServiceCommand())
	rootCmd.AddCommand(newTestCommand())
	rootCmd.AddCommand(newGraphCommand())
	rootCmd.AddCommand(newPolicyCommand())

	return rootCmd
}
