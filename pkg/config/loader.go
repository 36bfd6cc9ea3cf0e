package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openplat/openplat/pkg/metadata"
)

// Loader loads component manifests from files or directories, dispatching
// by file extension: .cue to the CUE parser, .yaml/.yml to the YAML parser.
type Loader struct {
	cue  *CUEParser
	yaml *YAMLParser
}

// NewLoader creates a manifest loader.
func NewLoader() *Loader {
	return &Loader{
		cue:  NewCUEParser(),
		yaml: NewYAMLParser(),
	}
}

// Load parses all manifests under the given paths and merges them into one
// manifest. Directories are walked recursively.
func (l *Loader) Load(ctx context.Context, paths []string) (*Manifest, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isManifestFile(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", path, err)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no manifest files found in %v", paths)
	}

	merged := &Manifest{}
	for _, file := range files {
		parsed, err := l.parseFile(ctx, file)
		if err != nil {
			return nil, err
		}
		if err := parsed.Err(); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		if merged.Platform == "" {
			merged.Platform = parsed.Manifest.Platform
		}
		merged.Components = append(merged.Components, parsed.Manifest.Components...)
	}
	return merged, nil
}

// LoadComponents loads manifests and builds their component descriptors.
func (l *Loader) LoadComponents(ctx context.Context, paths []string) ([]metadata.ComponentDescriptor, error) {
	manifest, err := l.Load(ctx, paths)
	if err != nil {
		return nil, err
	}
	return Build(*manifest)
}

func (l *Loader) parseFile(ctx context.Context, path string) (*ParsedManifest, error) {
	switch {
	case strings.HasSuffix(path, ".cue"):
		return l.cue.Parse(ctx, []string{path})
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return l.yaml.ParseFile(path)
	default:
		return nil, fmt.Errorf("unsupported manifest file type: %s", path)
	}
}

func isManifestFile(path string) bool {
	return strings.HasSuffix(path, ".cue") ||
		strings.HasSuffix(path, ".yaml") ||
		strings.HasSuffix(path, ".yml")
}
