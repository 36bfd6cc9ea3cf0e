package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServiceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service [paths...]",
		Short: "Run the service stage for owned resources",
		Long: `Run the service stage: ensure every resource at least one component marks
as owned. This is the stage a service runs at startup to bring up the
resources it is responsible for.`,
		Example: `  # Ensure owned resources declared under ./manifests
  plat service ./manifests`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}

			components, initializer, err := loadStage(cmd.Context(), paths)
			if err != nil {
				return err
			}
			if err := initializer.Service(cmd.Context(), components); err != nil {
				return err
			}

			log.Info().Int("components", len(components)).Msg("Service stage completed")
			return nil
		},
	}
	return cmd
}
