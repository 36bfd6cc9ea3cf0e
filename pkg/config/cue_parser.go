package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"github.com/go-playground/validator/v10"
)

// CUEParser parses and validates CUE component manifests.
type CUEParser struct {
	ctx       *cue.Context
	validator *validator.Validate
}

// NewCUEParser creates a new CUE manifest parser.
func NewCUEParser() *CUEParser {
	return &CUEParser{
		ctx:       cuecontext.New(),
		validator: validator.New(),
	}
}

// Parse parses manifest sources (files or directories) into a single
// manifest. Multiple sources are unified the CUE way, so components can be
// split across files.
func (cp *CUEParser) Parse(ctx context.Context, sources []string) (*ParsedManifest, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources provided")
	}

	var cueValue cue.Value
	var sourceFiles []string
	var parseErrors []ValidationError

	for _, source := range sources {
		info, err := os.Stat(source)
		if err != nil {
			return nil, fmt.Errorf("failed to stat source %s: %w", source, err)
		}

		var val cue.Value
		var files []string
		var errs []ValidationError
		if info.IsDir() {
			val, files, errs = cp.loadDirectory(source)
		} else {
			val, errs = cp.loadFile(source)
			files = []string{source}
		}

		parseErrors = append(parseErrors, errs...)
		if val.Exists() {
			if cueValue.Exists() {
				cueValue = cueValue.Unify(val)
			} else {
				cueValue = val
			}
		}
		sourceFiles = append(sourceFiles, files...)
	}

	parsed := &ParsedManifest{
		SourceFiles: sourceFiles,
		ParsedAt:    time.Now(),
		Errors:      parseErrors,
	}
	if len(parseErrors) > 0 {
		return parsed, nil
	}

	if err := cueValue.Validate(cue.Concrete(true)); err != nil {
		parsed.Errors = convertCUEErrors(err)
		return parsed, nil
	}

	cp.extractManifest(cueValue, parsed)
	return parsed, nil
}

// ParseInline parses inline CUE content. Used by tests and the CLI's
// stdin mode.
func (cp *CUEParser) ParseInline(ctx context.Context, content string) (*ParsedManifest, error) {
	parsed := &ParsedManifest{
		SourceFiles: []string{"inline"},
		ParsedAt:    time.Now(),
	}

	val := cp.ctx.CompileString(content, cue.Filename("inline"))
	if err := val.Err(); err != nil {
		parsed.Errors = convertCUEErrors(err)
		return parsed, nil
	}
	if err := val.Validate(cue.Concrete(true)); err != nil {
		parsed.Errors = convertCUEErrors(err)
		return parsed, nil
	}

	cp.extractManifest(val, parsed)
	return parsed, nil
}

// loadDirectory loads a directory as a CUE package.
func (cp *CUEParser) loadDirectory(dir string) (cue.Value, []string, []ValidationError) {
	buildInstances := load.Instances([]string{dir}, nil)
	if len(buildInstances) == 0 {
		return cue.Value{}, nil, []ValidationError{{
			File:     dir,
			Message:  "no CUE files found",
			Severity: "error",
		}}
	}

	inst := buildInstances[0]
	if inst.Err != nil {
		return cue.Value{}, nil, convertCUEErrors(inst.Err)
	}

	val := cp.ctx.BuildInstance(inst)
	if err := val.Err(); err != nil {
		return cue.Value{}, nil, convertCUEErrors(err)
	}

	var files []string
	for _, file := range inst.Files {
		if file.Filename != "" {
			files = append(files, file.Filename)
		}
	}
	return val, files, nil
}

// loadFile loads a single CUE file.
func (cp *CUEParser) loadFile(path string) (cue.Value, []ValidationError) {
	content, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, []ValidationError{{
			File:     path,
			Message:  fmt.Sprintf("failed to read file: %v", err),
			Severity: "error",
		}}
	}

	val := cp.ctx.CompileString(string(content), cue.Filename(path))
	if err := val.Err(); err != nil {
		return cue.Value{}, convertCUEErrors(err)
	}
	return val, nil
}

// extractManifest decodes and validates the manifest from a CUE value,
// appending any problems to parsed.Errors.
func (cp *CUEParser) extractManifest(val cue.Value, parsed *ParsedManifest) {
	platformVal := val.LookupPath(cue.ParsePath("platform"))
	if platformVal.Exists() {
		if err := platformVal.Decode(&parsed.Manifest.Platform); err != nil {
			parsed.Errors = append(parsed.Errors, ValidationError{
				Path:     "platform",
				Message:  fmt.Sprintf("failed to decode platform: %v", err),
				Severity: "error",
			})
		}
	}

	componentsVal := val.LookupPath(cue.ParsePath("components"))
	if !componentsVal.Exists() {
		parsed.Errors = append(parsed.Errors, ValidationError{
			Path:     "components",
			Message:  "manifest declares no components",
			Severity: "error",
		})
		return
	}

	list, err := componentsVal.List()
	if err != nil {
		parsed.Errors = append(parsed.Errors, ValidationError{
			Path:     "components",
			Message:  fmt.Sprintf("components must be a list: %v", err),
			Severity: "error",
		})
		return
	}

	idx := 0
	for list.Next() {
		var cc ComponentConfig
		if err := list.Value().Decode(&cc); err != nil {
			parsed.Errors = append(parsed.Errors, ValidationError{
				Path:     fmt.Sprintf("components[%d]", idx),
				Message:  fmt.Sprintf("failed to decode component: %v", err),
				Severity: "error",
			})
			idx++
			continue
		}
		if err := cp.validator.Struct(cc); err != nil {
			parsed.Errors = append(parsed.Errors, ValidationError{
				Path:     fmt.Sprintf("components[%d]", idx),
				Message:  fmt.Sprintf("validation failed: %v", err),
				Severity: "error",
			})
			idx++
			continue
		}
		parsed.Manifest.Components = append(parsed.Manifest.Components, cc)
		idx++
	}
}

// convertCUEErrors converts CUE errors into positioned validation errors.
func convertCUEErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	for _, e := range cueerrors.Errors(err) {
		pos := cueerrors.Positions(e)
		var file string
		var line, column int
		if len(pos) > 0 {
			file = pos[0].Filename()
			line = pos[0].Line()
			column = pos[0].Column()
		}

		validationErrors = append(validationErrors, ValidationError{
			File:     file,
			Line:     line,
			Column:   column,
			Message:  cueerrors.Details(e, nil),
			Severity: "error",
		})
	}
	return validationErrors
}
