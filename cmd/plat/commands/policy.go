package commands

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openplat/openplat/pkg/policy"
)

func newPolicyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Manage governance policies",
	}

	cmd.AddCommand(newPolicyListCommand())

	return cmd
}

func newPolicyListCommand() *cobra.Command {
	var policyDirs []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loaded policies",
		Example: `  # List the built-in policies
  plat policy list

  # Include policies from a directory
  plat policy list --policy-dir ./policies`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := policy.NewEngine(log.Logger)
			if err != nil {
				return err
			}
			if len(policyDirs) > 0 {
				if err := engine.LoadPolicies(cmd.Context(), policyDirs); err != nil {
					return err
				}
			}

			policies := engine.ListPolicies()
			if jsonOutput {
				data, err := json.MarshalIndent(policies, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			for _, p := range policies {
				state := "enabled"
				if !p.Enabled {
					state = "disabled"
				}
				fmt.Printf("%s [%s, %s] %s\n", p.Name, p.Severity, state, p.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&policyDirs, "policy-dir", nil, "additional policy directories")

	return cmd
}
