package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [paths...]",
		Short: "Run the init stage for shared resources",
		Long: `Run the init stage: ensure every resource at least one component marks
as shared. Shared resources are initialized once for the whole platform,
before any service starts.`,
		Example: `  # Initialize shared resources declared under ./manifests
  plat init ./manifests`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}

			components, initializer, err := loadStage(cmd.Context(), paths)
			if err != nil {
				return err
			}
			if err := initializer.Init(cmd.Context(), components); err != nil {
				return err
			}

			log.Info().Int("components", len(components)).Msg("Init stage completed")
			return nil
		},
	}
	return cmd
}
