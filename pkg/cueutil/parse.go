// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseAndDecode checks data against the definition named by schemaPath
// inside schema and decodes the unified value into a T.
//
// jsbundle uses it for bundle documents ("#BundleConfig", decoded into the
// document model) and for settings files ("#Config", decoded into a
// map[string]any with WithConcrete(false) so omitted settings keep their
// defaults). Schema failures are internal errors; data failures come back
// as *ValidationError naming the offending field.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*T, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	name := options.filename
	if name == "" {
		name = "<input>"
	}
	if err := CheckFileSize(data, options.maxFileSize, name); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	def := ctx.CompileBytes(schema).LookupPath(cue.ParsePath(schemaPath))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("internal error: schema definition %s: %w", schemaPath, err)
	}

	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return nil, FormatError(err, name)
	}

	value = def.Unify(value)
	if err := value.Validate(cue.Concrete(options.concrete)); err != nil {
		return nil, FormatError(err, name)
	}

	out := new(T)
	if err := value.Decode(out); err != nil {
		return nil, FormatError(err, name)
	}
	return out, nil
}
