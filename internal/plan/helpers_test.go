// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"
)

const testRoot = "/proj"

// bundle declares a bundle whose items are the given module names.
func bundle(name string, includes []string, modules ...string) *BundleDefinition {
	items := make([]BundleItem, 0, len(modules))
	for _, m := range modules {
		items = append(items, BundleItem{ModuleName: m})
	}
	return NewBundleDefinition(name, false, "", includes, items)
}

func virtual(def *BundleDefinition) *BundleDefinition {
	def.Virtual = true
	return def
}

// physical is the path ResolvePaths assigns under testRoot.
func physical(module string) string {
	return filepath.Join(testRoot, DefaultEntryPoint, filepath.FromSlash(module)+".js")
}

func physicalAll(modules ...string) []string {
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		out = append(out, physical(m))
	}
	return out
}

func allExist(string) (fs.FileInfo, error) { return nil, nil }

// newConfig builds a path-resolved configuration without touching disk.
func newConfig(t *testing.T, defs ...*BundleDefinition) *Configuration {
	t.Helper()
	cfg := NewConfiguration("")
	for _, def := range defs {
		if !cfg.addBundle(def) {
			t.Fatalf("duplicate bundle %q in test setup", def.Name)
		}
	}
	if err := cfg.ResolvePaths(context.Background(), testRoot, WithStat(allExist)); err != nil {
		t.Fatalf("ResolvePaths() error: %v", err)
	}
	return cfg
}

func itemPaths(def *BundleDefinition) []string {
	items := def.Items()
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.PhysicalPath)
	}
	return out
}

func mustBundle(t *testing.T, cfg *Configuration, name string) *BundleDefinition {
	t.Helper()
	def, ok := cfg.Bundle(name)
	if !ok {
		t.Fatalf("bundle %q missing", name)
	}
	return def
}

func resolvedCount(cfg *Configuration) int {
	n := 0
	for _, def := range cfg.Bundles() {
		if def.Resolved() {
			n++
		}
	}
	return n
}
