// SPDX-License-Identifier: MPL-2.0

// Package discovery locates jsbundle config documents under a project root.
//
// Documents are matched with doublestar patterns relative to the root
// (default **/jsbundle.{cue,hcl,toml,yaml,yml,xml}) and returned in lexical
// order so that first-wins merging is reproducible. Directories that cannot
// be read are reported as Diagnostics instead of failing discovery.
package discovery
