package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openplat/openplat/pkg/config"
	"github.com/openplat/openplat/pkg/policy"
	"github.com/openplat/openplat/pkg/resource"
)

func newValidateCommand() *cobra.Command {
	var (
		watch      bool
		policyDirs []string
	)

	cmd := &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Validate component manifests",
		Long: `Validate component manifests against the component rules and policies.

This command checks:
  - CUE/YAML manifest syntax and schema conformance
  - Component well-formedness (names, kinds, resource tags)
  - Policy compliance (OPA/rego)`,
		Example: `  # Validate manifests in the current directory
  plat validate

  # Validate a specific directory and re-run on change
  plat validate --watch ./manifests

  # Validate with additional policies
  plat validate --policy-dir ./policies ./manifests`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}

			engine, err := policy.NewEngine(log.Logger)
			if err != nil {
				return err
			}
			if len(policyDirs) > 0 {
				if err := engine.LoadPolicies(cmd.Context(), policyDirs); err != nil {
					return err
				}
			}

			if !watch {
				return runValidation(cmd.Context(), paths, engine)
			}
			return watchValidation(cmd.Context(), paths, engine)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "re-validate when manifest files change")
	cmd.Flags().StringSliceVar(&policyDirs, "policy-dir", nil, "additional policy directories")

	return cmd
}

func runValidation(ctx context.Context, paths []string, engine *policy.Engine) error {
	components, err := config.NewLoader().LoadComponents(ctx, paths)
	if err != nil {
		return err
	}

	if err := resource.NewComponentValidator().Validate(components...); err != nil {
		return err
	}
	log.Info().Int("components", len(components)).Msg("Components are valid")

	result, err := engine.EvaluateComponents(ctx, components)
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		for _, v := range result.Violations {
			fmt.Printf("%s: [%s] %s: %s\n", v.Severity, v.Policy, v.Component, v.Message)
		}
	}

	if !result.Allowed {
		return fmt.Errorf("policy check failed with %d violation(s)", len(result.Violations))
	}
	log.Info().
		Int("policies", len(result.EvaluatedPolicies)).
		Int("violations", len(result.Violations)).
		Msg("Policy check passed")
	return nil
}

// watchValidation re-runs validation whenever a manifest file under the
// given paths changes, debounced.
func watchValidation(ctx context.Context, paths []string, engine *policy.Engine) error {
	if err := runValidation(ctx, paths, engine); err != nil {
		log.Error().Err(err).Msg("Validation failed")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat path %s: %w", path, err)
		}
		if !info.IsDir() {
			if err := watcher.Add(path); err != nil {
				return err
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return watcher.Add(p)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	log.Info().Int("paths", len(paths)).Msg("Watching for manifest changes")

	var revalidateTimer *time.Timer
	debounce := 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isManifestPath(event.Name) {
				continue
			}

			log.Debug().Str("file", event.Name).Msg("Manifest changed")
			if revalidateTimer != nil {
				revalidateTimer.Stop()
			}
			revalidateTimer = time.AfterFunc(debounce, func() {
				if err := runValidation(ctx, paths, engine); err != nil {
					log.Error().Err(err).Msg("Validation failed")
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("Watcher error")
		}
	}
}

func isManifestPath(path string) bool {
	return strings.HasSuffix(path, ".cue") ||
		strings.HasSuffix(path, ".yaml") ||
		strings.HasSuffix(path, ".yml")
}
