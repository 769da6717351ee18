// SPDX-License-Identifier: MPL-2.0

package bundleconf

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

type (
	// hclFile is the top-level structure of a jsbundle.hcl document:
	//
	//	entry_point = "scripts"
	//	path "jquery" { value = "vendor/jquery-3.7" }
	//	bundle "app" {
	//	  includes    = "ui"
	//	  output_path = "dist/app.js"
	//	  item "app/main" { compression = "min" }
	//	}
	hclFile struct {
		EntryPoint string      `hcl:"entry_point,optional"`
		Paths      []hclPath   `hcl:"path,block"`
		Bundles    []hclBundle `hcl:"bundle,block"`
	}

	hclPath struct {
		Key   string `hcl:"key,label"`
		Value string `hcl:"value"`
	}

	hclBundle struct {
		Name       string    `hcl:"name,label"`
		Virtual    bool      `hcl:"virtual,optional"`
		OutputPath string    `hcl:"output_path,optional"`
		Includes   string    `hcl:"includes,optional"`
		Items      []hclItem `hcl:"item,block"`
	}

	hclItem struct {
		Path        string `hcl:"path,label"`
		Compression string `hcl:"compression,optional"`
	}
)

func decodeHCL(data []byte, name string) (*Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %w", diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %w", diags)
	}

	raw := rawDocument{EntryPoint: parsed.EntryPoint}
	for _, p := range parsed.Paths {
		raw.Paths = append(raw.Paths, rawPath(p))
	}
	for _, b := range parsed.Bundles {
		rb := rawBundle{
			Name:       b.Name,
			Virtual:    b.Virtual,
			OutputPath: b.OutputPath,
			Includes:   b.Includes,
		}
		for _, it := range b.Items {
			rb.Items = append(rb.Items, rawItem(it))
		}
		raw.Bundles = append(raw.Bundles, rb)
	}
	return raw.document(), nil
}
