package config

import (
	"fmt"

	"github.com/openplat/openplat/pkg/metadata"
)

// Build turns a parsed manifest into component descriptors. Inline resource
// declarations each become one descriptor instance; ref entries resolve to
// the first inline declaration with that id anywhere in the manifest, so
// components and resources can share descriptors and form cycles.
func Build(manifest Manifest) ([]metadata.ComponentDescriptor, error) {
	b := &builder{
		byID:  make(map[string]*Resource),
		built: make(map[*ResourceConfig]*Resource),
	}

	// First pass creates every inline resource so refs can resolve
	// regardless of declaration order.
	for i := range manifest.Components {
		c := &manifest.Components[i]
		for _, list := range [][]ResourceConfig{c.Inputs, c.Internals, c.Outputs} {
			for j := range list {
				if err := b.create(&list[j], c.Name); err != nil {
					return nil, err
				}
			}
		}
	}

	// Second pass wires dependencies and assembles the components.
	descriptors := make([]metadata.ComponentDescriptor, 0, len(manifest.Components))
	for i := range manifest.Components {
		c := &manifest.Components[i]

		inputs, err := b.resolveList(c.Inputs, c.Name)
		if err != nil {
			return nil, err
		}
		internals, err := b.resolveList(c.Internals, c.Name)
		if err != nil {
			return nil, err
		}
		outputs, err := b.resolveList(c.Outputs, c.Name)
		if err != nil {
			return nil, err
		}

		base := component{name: c.Name, inputs: inputs, internals: internals, outputs: outputs}
		switch c.Kind {
		case "service":
			env := c.TestEnvironment
			if env == nil {
				env = map[string]string{}
			}
			descriptors = append(descriptors, &Service{
				component:       base,
				dockerImage:     c.DockerImage,
				testEnvironment: env,
			})
		case "aggregate":
			if c.DockerImage != "" {
				return nil, fmt.Errorf("aggregate %q can not declare a docker image", c.Name)
			}
			descriptors = append(descriptors, &Aggregate{component: base})
		default:
			return nil, fmt.Errorf("component %q has unknown kind %q", c.Name, c.Kind)
		}
	}
	return descriptors, nil
}

type builder struct {
	// byID holds the first inline declaration per resource id, the
	// target of ref entries.
	byID map[string]*Resource

	// built maps each inline declaration to its descriptor.
	built map[*ResourceConfig]*Resource
}

// create instantiates the descriptor for an inline declaration and recurses
// into nested declarations. Refs are resolved later.
func (b *builder) create(cfg *ResourceConfig, componentName string) error {
	if cfg.Ref != "" {
		if cfg.ID != "" || cfg.Type != "" || cfg.Initialization != "" || len(cfg.Resources) != 0 {
			return fmt.Errorf("resource ref %q in component %q must not declare other fields", cfg.Ref, componentName)
		}
		return nil
	}

	init, ok := metadata.ParseInitialization(cfg.Initialization)
	if !ok {
		return fmt.Errorf("resource %q in component %q has unknown initialization %q", cfg.ID, componentName, cfg.Initialization)
	}

	r := &Resource{
		id:             cfg.ID,
		resourceType:   cfg.Type,
		initialization: init,
	}
	b.built[cfg] = r
	if _, exists := b.byID[cfg.ID]; !exists {
		b.byID[cfg.ID] = r
	}

	for i := range cfg.Resources {
		if err := b.create(&cfg.Resources[i], componentName); err != nil {
			return err
		}
	}
	return nil
}

// resolveList resolves a declaration list to descriptors, wiring nested
// dependencies as it goes.
func (b *builder) resolveList(list []ResourceConfig, componentName string) ([]metadata.ResourceDescriptor, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]metadata.ResourceDescriptor, 0, len(list))
	for i := range list {
		r, err := b.resolve(&list[i], componentName)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (b *builder) resolve(cfg *ResourceConfig, componentName string) (*Resource, error) {
	if cfg.Ref != "" {
		target, exists := b.byID[cfg.Ref]
		if !exists {
			return nil, fmt.Errorf("unknown resource ref %q in component %q", cfg.Ref, componentName)
		}
		return target, nil
	}

	r := b.built[cfg]
	if r.dependencies == nil && len(cfg.Resources) != 0 {
		// Mark as in progress before recursing; cycles through refs
		// terminate because ref targets already exist.
		deps, err := b.resolveList(cfg.Resources, componentName)
		if err != nil {
			return nil, err
		}
		r.dependencies = deps
	}
	return r, nil
}
