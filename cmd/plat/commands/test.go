package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openplat/openplat/pkg/config"
	"github.com/openplat/openplat/pkg/metadata"
	"github.com/openplat/openplat/pkg/resource"
)

func newTestCommand() *cobra.Command {
	var (
		underTestPaths []string
		otherPaths     []string
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the test stage for components under test",
		Long: `Run the test stage: ensure the resources the components under test consume
but do not own. Descriptors from other components are merged in for
resources both sides declare, so the test environment matches production
expectations.`,
		Example: `  # Bring up a test environment for the orders service
  plat test --under-test ./manifests/orders --other ./manifests`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(underTestPaths) == 0 {
				return fmt.Errorf("at least one --under-test path is required")
			}

			loader := config.NewLoader()
			underTest, err := loader.LoadComponents(cmd.Context(), underTestPaths)
			if err != nil {
				return err
			}

			var other []metadata.ComponentDescriptor
			if len(otherPaths) > 0 {
				other, err = loader.LoadComponents(cmd.Context(), otherPaths)
				if err != nil {
					return err
				}
			}

			combined := make([]metadata.ComponentDescriptor, 0, len(underTest)+len(other))
			combined = append(combined, underTest...)
			combined = append(combined, other...)
			registry, err := registerEchoHandlers(combined)
			if err != nil {
				return err
			}

			initializer := resource.NewResourceInitializer(registry,
				resource.WithLogger(log.Logger))
			if err := initializer.Test(cmd.Context(), underTest, other); err != nil {
				return err
			}

			log.Info().
				Int("under_test", len(underTest)).
				Int("other", len(other)).
				Msg("Test stage completed")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&underTestPaths, "under-test", nil, "manifest paths for the components under test")
	cmd.Flags().StringSliceVar(&otherPaths, "other", nil, "manifest paths for the surrounding components")

	return cmd
}
