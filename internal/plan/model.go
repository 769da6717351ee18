// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// StateUnresolved is the initial state of every bundle definition.
	StateUnresolved State = iota
	// StateResolved marks a bundle whose item list includes every parent item.
	StateResolved
)

type (
	// State is the resolution state of a bundle definition. Transitions are
	// one-way: StateUnresolved -> StateResolved.
	State int

	// BundleItem is one module reference inside a bundle.
	BundleItem struct {
		// ModuleName is the symbolic module name as declared.
		ModuleName string
		// CompressionKind is an opaque compression hint passed through to output.
		CompressionKind string
		// PhysicalPath is filled in by ResolvePaths.
		PhysicalPath string
	}

	// BundleDefinition is a named bundle as loaded from config documents.
	BundleDefinition struct {
		Name       string
		Virtual    bool
		OutputPath string
		// Includes lists parent bundle names in declared order, deduplicated.
		Includes []string

		declared []BundleItem
		items    []BundleItem
		state    State
	}

	// FileSpec is one file of an emitted bundle.
	FileSpec struct {
		PhysicalPath    string `json:"physicalPath"`
		CompressionKind string `json:"compressionKind,omitempty"`
	}

	// Bundle is an emitted output record. It is never mutated after creation.
	Bundle struct {
		// Name is the bundle definition the output was derived from.
		Name       string     `json:"name"`
		OutputPath string     `json:"outputPath"`
		Files      []FileSpec `json:"files"`
	}

	// Plan is the full ordered list of concrete bundles to build.
	Plan struct {
		ProjectRoot string   `json:"projectRoot"`
		EntryPoint  string   `json:"entryPoint"`
		Bundles     []Bundle `json:"bundles"`
	}
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolved:
		return "resolved"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// NewBundleDefinition creates an unresolved bundle definition that owns a
// copy of the given items.
func NewBundleDefinition(name string, virtual bool, outputPath string, includes []string, items []BundleItem) *BundleDefinition {
	return &BundleDefinition{
		Name:       name,
		Virtual:    virtual,
		OutputPath: outputPath,
		Includes:   dedupeNames(includes),
		declared:   slices.Clone(items),
	}
}

// Resolved reports whether the bundle has been resolved.
func (b *BundleDefinition) Resolved() bool { return b.state == StateResolved }

// Items returns a copy of the resolved item list. It is nil until the bundle
// is resolved.
func (b *BundleDefinition) Items() []BundleItem { return slices.Clone(b.items) }

// resolve latches the merged item list. Resolving twice is a programming error.
func (b *BundleDefinition) resolve(items []BundleItem) {
	if b.state != StateUnresolved {
		panic(fmt.Sprintf("plan: bundle %q resolved twice", b.Name))
	}
	b.items = items
	b.state = StateResolved
}

// dedupeNames drops empty and repeated names, keeping first occurrences.
func dedupeNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
