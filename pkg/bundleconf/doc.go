// SPDX-License-Identifier: MPL-2.0

// Package bundleconf reads jsbundle configuration documents.
//
// A document declares an optional entry point, path aliases and bundle
// definitions. The same shape can be written as CUE, HCL, TOML, YAML or XML;
// ParseFile picks the decoder from the file extension and every decoder
// yields the same format-agnostic Document.
//
// Shared normalization applied after decoding:
//   - includes is a comma-separated list, split, trimmed, with empty and
//     repeated names dropped (first occurrence kept)
//   - entryPoint and outputPath expand $VAR and ${VAR} references
//   - bundle names and item paths must be non-empty
package bundleconf
