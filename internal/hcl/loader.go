package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/fuzztruck/internal/config"
	"github.com/vk/fuzztruck/internal/ctxlog"
	"github.com/vk/fuzztruck/internal/fsutil"
	"github.com/vk/fuzztruck/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the HCL loading process: discover files, decode every
// top-level block from each, merge, translate into the agnostic model, and
// validate the result. Block kinds may be spread across files; exactly one
// controller block must exist in total.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findDefinitionFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found under %v", paths)
	}
	logger.Debug("Discovered definition files.", "count", len(files))

	parser := hclparse.NewParser()
	merged := &schema.Root{}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}
		var root schema.Root
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", file, diags)
		}
		merged.Controllers = append(merged.Controllers, root.Controllers...)
		merged.Variables = append(merged.Variables, root.Variables...)
		merged.Rules = append(merged.Rules, root.Rules...)
		merged.Sessions = append(merged.Sessions, root.Sessions...)
	}

	model, err := l.translate(merged)
	if err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("HCL loading complete.",
		"variables", len(model.Variables),
		"rules", len(model.Rules),
		"controller", model.Controller.Name,
	)
	return model, nil
}

// findDefinitionFiles resolves the given paths (files or directories) to a
// flat, de-duplicated list of .hcl files.
func (l *Loader) findDefinitionFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, dup := seen[p]; !dup {
			all = append(all, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		} else {
			return nil, fmt.Errorf("%s is neither a directory nor an .hcl file", path)
		}
	}
	return all, nil
}
