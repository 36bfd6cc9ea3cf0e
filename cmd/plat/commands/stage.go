package commands

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/openplat/openplat/pkg/config"
	"github.com/openplat/openplat/pkg/handlers/echo"
	"github.com/openplat/openplat/pkg/metadata"
	"github.com/openplat/openplat/pkg/resource"
)

// loadStage loads components from manifest paths and builds an initializer
// with the echo handler registered for every resource type the manifests
// declare.
func loadStage(ctx context.Context, paths []string) ([]metadata.ComponentDescriptor, *resource.ResourceInitializer, error) {
	components, err := config.NewLoader().LoadComponents(ctx, paths)
	if err != nil {
		return nil, nil, err
	}

	registry, err := registerEchoHandlers(components)
	if err != nil {
		return nil, nil, err
	}

	initializer := resource.NewResourceInitializer(registry,
		resource.WithLogger(log.Logger))
	return components, initializer, nil
}

func registerEchoHandlers(components []metadata.ComponentDescriptor) (*metadata.HandlerRegistry, error) {
	registry := metadata.NewHandlerRegistry()
	handler := echo.New(log.Logger)

	seen := make(map[string]struct{})
	for _, component := range components {
		for _, r := range metadata.CollectComponentResources(component) {
			if _, ok := seen[r.Type()]; ok {
				continue
			}
			seen[r.Type()] = struct{}{}
			if err := registry.Register(r.Type(), handler); err != nil {
				return nil, err
			}
		}
	}
	return registry, nil
}
