// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing and encoding utilities.
//
// Bundle documents and tool settings follow the same flow:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with the root definition
//  3. Validate and decode to a Go struct
//
// # Usage
//
//	//go:embed bundleconf_schema.cue
//	var schemaBytes []byte
//
//	doc, err := cueutil.ParseAndDecode[rawDocument](
//	    schemaBytes,
//	    data,
//	    "#BundleConfig",
//	    cueutil.WithFilename("jsbundle.cue"),
//	)
//	if err != nil {
//	    return nil, err  // Error includes the CUE path of the offending field
//	}
//
// Encode goes the other way and renders any Go value as formatted CUE source.
package cueutil
