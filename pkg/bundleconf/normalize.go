// SPDX-License-Identifier: MPL-2.0

package bundleconf

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

type (
	// rawDocument is the on-disk shape shared by the CUE, TOML and YAML decoders.
	rawDocument struct {
		EntryPoint string      `json:"entryPoint,omitempty" yaml:"entryPoint" toml:"entryPoint"`
		Paths      []rawPath   `json:"paths,omitempty" yaml:"paths" toml:"paths"`
		Bundles    []rawBundle `json:"bundles,omitempty" yaml:"bundles" toml:"bundles"`
	}

	rawPath struct {
		Key   string `json:"key" yaml:"key" toml:"key"`
		Value string `json:"value" yaml:"value" toml:"value"`
	}

	rawBundle struct {
		Name       string    `json:"name" yaml:"name" toml:"name"`
		Virtual    bool      `json:"virtual,omitempty" yaml:"virtual" toml:"virtual"`
		OutputPath string    `json:"outputPath,omitempty" yaml:"outputPath" toml:"outputPath"`
		Includes   string    `json:"includes,omitempty" yaml:"includes" toml:"includes"`
		Items      []rawItem `json:"items,omitempty" yaml:"items" toml:"items"`
	}

	rawItem struct {
		Path        string `json:"path" yaml:"path" toml:"path"`
		Compression string `json:"compression,omitempty" yaml:"compression" toml:"compression"`
	}
)

// SplitIncludes parses a comma-separated includes attribute. Entries are
// trimmed; empty and repeated entries are dropped, keeping declared order.
func SplitIncludes(s string) []string {
	var out []string
	seen := make(map[string]struct{})
	for part := range strings.SplitSeq(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func (r *rawDocument) document() *Document {
	doc := &Document{EntryPoint: r.EntryPoint}
	for _, p := range r.Paths {
		doc.Paths = append(doc.Paths, PathAlias(p))
	}
	for _, b := range r.Bundles {
		bundle := Bundle{
			Name:       b.Name,
			Virtual:    b.Virtual,
			OutputPath: b.OutputPath,
			Includes:   SplitIncludes(b.Includes),
		}
		for _, it := range b.Items {
			bundle.Items = append(bundle.Items, Item(it))
		}
		doc.Bundles = append(doc.Bundles, bundle)
	}
	return doc
}

// normalize validates the decoded document and expands variables.
func (d *Document) normalize(o options) error {
	var err error
	expand := func(s string) (string, error) {
		if !strings.Contains(s, "$") {
			return s, nil
		}
		return shell.Expand(s, func(name string) string {
			v, _ := o.lookupEnv(name)
			return v
		})
	}

	d.EntryPoint = strings.TrimSpace(d.EntryPoint)
	if d.EntryPoint, err = expand(d.EntryPoint); err != nil {
		return fmt.Errorf("entryPoint: %w", err)
	}

	for i := range d.Paths {
		p := &d.Paths[i]
		p.Key = strings.TrimSpace(p.Key)
		if p.Key == "" {
			return fmt.Errorf("paths[%d]: key must not be empty", i)
		}
	}

	for i := range d.Bundles {
		b := &d.Bundles[i]
		b.Name = strings.TrimSpace(b.Name)
		if b.Name == "" {
			return fmt.Errorf("bundles[%d]: name must not be empty", i)
		}
		if b.OutputPath, err = expand(strings.TrimSpace(b.OutputPath)); err != nil {
			return fmt.Errorf("bundle %q: outputPath: %w", b.Name, err)
		}
		b.Includes = SplitIncludes(strings.Join(b.Includes, ","))
		for j := range b.Items {
			it := &b.Items[j]
			it.Path = strings.TrimSpace(it.Path)
			if it.Path == "" {
				return fmt.Errorf("bundle %q: items[%d]: path must not be empty", b.Name, j)
			}
			it.Compression = strings.TrimSpace(it.Compression)
		}
	}
	return nil
}

var errEmptyDocument = errors.New("document is empty")
