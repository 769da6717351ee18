// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"fmt"

	"github.com/jsbundle/jsbundle/pkg/bundleconf"
)

// DefaultEntryPoint is the script root used when no document sets one.
const DefaultEntryPoint = "scripts"

const (
	// CodeDuplicateBundle is reported when a later document redefines a bundle.
	CodeDuplicateBundle = "duplicate_bundle"
	// CodeDuplicateAlias is reported when a later document re-registers a path alias.
	CodeDuplicateAlias = "duplicate_alias"
	// CodeEntryPointIgnored is reported when a later document sets a different entry point.
	CodeEntryPointIgnored = "entry_point_ignored"
)

type (
	// Diagnostic is a non-fatal note produced while loading documents.
	Diagnostic struct {
		Code    string
		Message string
		// Path is the document that produced the diagnostic.
		Path string
	}

	// Configuration is the resolution context: entry point, alias table and
	// the bundle definitions keyed by name in first-seen order.
	Configuration struct {
		EntryPoint string
		Aliases    *AliasTable

		entryPointSet  bool
		resolveStarted bool
		bundles        map[string]*BundleDefinition
		order          []string
	}
)

// NewConfiguration creates an empty configuration. An empty defaultEntryPoint
// falls back to DefaultEntryPoint.
func NewConfiguration(defaultEntryPoint string) *Configuration {
	if defaultEntryPoint == "" {
		defaultEntryPoint = DefaultEntryPoint
	}
	return &Configuration{
		EntryPoint: defaultEntryPoint,
		Aliases:    NewAliasTable(),
		bundles:    make(map[string]*BundleDefinition),
	}
}

// AddDocument merges a parsed document into the configuration. The first
// document to set the entry point wins, and so does the first registration
// of each alias and bundle name. Skipped redefinitions are returned as
// diagnostics.
func (c *Configuration) AddDocument(doc *bundleconf.Document) []Diagnostic {
	var diags []Diagnostic

	if doc.EntryPoint != "" {
		switch {
		case !c.entryPointSet:
			c.EntryPoint = doc.EntryPoint
			c.entryPointSet = true
		case doc.EntryPoint != c.EntryPoint:
			diags = append(diags, Diagnostic{
				Code:    CodeEntryPointIgnored,
				Message: fmt.Sprintf("entry point %q ignored, already set to %q", doc.EntryPoint, c.EntryPoint),
				Path:    doc.Path,
			})
		}
	}

	for _, p := range doc.Paths {
		if !c.Aliases.Register(p.Key, p.Value) {
			diags = append(diags, Diagnostic{
				Code:    CodeDuplicateAlias,
				Message: fmt.Sprintf("path alias %q already registered", p.Key),
				Path:    doc.Path,
			})
		}
	}

	for i := range doc.Bundles {
		b := &doc.Bundles[i]
		items := make([]BundleItem, 0, len(b.Items))
		for _, it := range b.Items {
			items = append(items, BundleItem{ModuleName: it.Path, CompressionKind: it.Compression})
		}
		if !c.addBundle(NewBundleDefinition(b.Name, b.Virtual, b.OutputPath, b.Includes, items)) {
			diags = append(diags, Diagnostic{
				Code:    CodeDuplicateBundle,
				Message: fmt.Sprintf("bundle %q already defined, later definition skipped", b.Name),
				Path:    doc.Path,
			})
		}
	}

	return diags
}

// addBundle inserts def unless its name is already taken.
func (c *Configuration) addBundle(def *BundleDefinition) bool {
	if _, exists := c.bundles[def.Name]; exists {
		return false
	}
	c.bundles[def.Name] = def
	c.order = append(c.order, def.Name)
	return true
}

// Bundle returns the definition registered under name.
func (c *Configuration) Bundle(name string) (*BundleDefinition, bool) {
	def, ok := c.bundles[name]
	return def, ok
}

// Bundles returns all definitions in insertion order.
func (c *Configuration) Bundles() []*BundleDefinition {
	out := make([]*BundleDefinition, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.bundles[name])
	}
	return out
}

// Len returns the number of bundle definitions.
func (c *Configuration) Len() int { return len(c.order) }
