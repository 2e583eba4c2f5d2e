// Package hclcfg loads HCL project definitions and translates them into
// the assembly's options model. Parsing concerns stay here; the project
// package never sees an hcl.Body.
package hclcfg

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/projgen/internal/ctxlog"
	"github.com/vk/projgen/internal/fsutil"
	"github.com/vk/projgen/internal/project"
	"github.com/vk/projgen/internal/projerr"
	"github.com/vk/projgen/internal/schema"
)

// Loader parses project definition files.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader returns a fresh loader with an isolated parser cache.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load locates the definition under path (a .hcl file or a directory
// containing exactly one `project` block across its .hcl files) and
// returns the translated options.
func (l *Loader) Load(ctx context.Context, path string) (project.Options, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return project.Options{}, fmt.Errorf("failed to locate project definition: %w", err)
	}
	if len(files) == 0 {
		return project.Options{}, projerr.Config("project", "no .hcl definition files under %s", path)
	}
	logger.Debug("definition files located.", "count", len(files))

	evalCtx := evalContext()

	var block *schema.Project
	for _, file := range files {
		hclFile, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return project.Options{}, fmt.Errorf("failed to parse %s: %w", file, diags)
		}
		var parsed schema.File
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &parsed); diags.HasErrors() {
			return project.Options{}, fmt.Errorf("failed to decode %s: %w", file, diags)
		}
		if parsed.Project == nil {
			continue
		}
		if block != nil {
			return project.Options{}, projerr.Config("project", "multiple project blocks found under %s", path)
		}
		block = parsed.Project
	}
	if block == nil {
		return project.Options{}, projerr.Config("project", "no project block found under %s", path)
	}

	logger.Debug("project block decoded.", "name", block.Name)
	return translate(block), nil
}

// evalContext exposes the process environment to definition files as the
// `env` object, so values like the copyright owner can be interpolated
// (e.g. `copyright_owner = env.USER`).
func evalContext() *hcl.EvalContext {
	envVals := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		envVals[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(envVals),
		},
	}
}
