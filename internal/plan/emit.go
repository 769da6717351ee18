// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// OutputPath computes where a bundle is written. An empty declared path
// yields projectRoot/entryPoint/<name>.js. Otherwise the declared path is
// split into directory and filename; a missing filename defaults to
// <name>.js. Declared paths always use forward slashes.
func (c *Configuration) OutputPath(projectRoot string, def *BundleDefinition) string {
	defaultName := def.Name + SourceExt
	if def.OutputPath == "" {
		return filepath.Join(projectRoot, c.EntryPoint, defaultName)
	}

	declared := strings.ReplaceAll(def.OutputPath, `\`, "/")
	dir, file := path.Split(declared)
	if file == "" {
		file = defaultName
	}
	return filepath.Join(projectRoot, c.EntryPoint, filepath.FromSlash(dir), file)
}

// Emit produces the plan: one Bundle per non-virtual definition in insertion
// order, each listing its resolved items as files. Virtual bundles are never
// materialized. Every definition must be resolved.
func (c *Configuration) Emit(projectRoot string) (*Plan, error) {
	p := &Plan{
		ProjectRoot: projectRoot,
		EntryPoint:  c.EntryPoint,
		Bundles:     []Bundle{},
	}
	for _, def := range c.Bundles() {
		if !def.Resolved() {
			return nil, fmt.Errorf("%w: %q", ErrUnresolvedBundle, def.Name)
		}
		if def.Virtual {
			continue
		}
		files := make([]FileSpec, 0, len(def.items))
		for _, item := range def.items {
			files = append(files, FileSpec{PhysicalPath: item.PhysicalPath, CompressionKind: item.CompressionKind})
		}
		p.Bundles = append(p.Bundles, Bundle{
			Name:       def.Name,
			OutputPath: c.OutputPath(projectRoot, def),
			Files:      files,
		})
	}
	return p, nil
}
