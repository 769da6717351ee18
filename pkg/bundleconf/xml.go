// SPDX-License-Identifier: MPL-2.0

package bundleconf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

type (
	// xmlRoot accepts any root element name:
	//
	//	<jsbundle entryPoint="scripts">
	//	  <paths><path key="jquery" value="vendor/jquery-3.7"/></paths>
	//	  <bundles>
	//	    <bundle name="app" includes="ui" outputPath="dist/app.js">
	//	      <bundleItem path="app/main" compression="min"/>
	//	    </bundle>
	//	  </bundles>
	//	</jsbundle>
	xmlRoot struct {
		EntryPoint string      `xml:"entryPoint,attr"`
		Paths      []xmlPath   `xml:"paths>path"`
		Bundles    []xmlBundle `xml:"bundles>bundle"`
	}

	xmlPath struct {
		Key   string `xml:"key,attr"`
		Value string `xml:"value,attr"`
	}

	xmlBundle struct {
		Name       string    `xml:"name,attr"`
		Virtual    string    `xml:"virtual,attr"`
		OutputPath string    `xml:"outputPath,attr"`
		Includes   string    `xml:"includes,attr"`
		Items      []xmlItem `xml:"bundleItem"`
	}

	xmlItem struct {
		Path        string `xml:"path,attr"`
		Compression string `xml:"compression,attr"`
	}
)

var errNoRootElement = errors.New("document has no root element")

func decodeXML(data []byte) (*Document, error) {
	var root xmlRoot
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errNoRootElement
		}
		return nil, fmt.Errorf("failed to decode XML: %w", err)
	}

	raw := rawDocument{EntryPoint: root.EntryPoint}
	for _, p := range root.Paths {
		raw.Paths = append(raw.Paths, rawPath(p))
	}
	for _, b := range root.Bundles {
		virtual, err := parseXMLBool(b.Virtual)
		if err != nil {
			return nil, fmt.Errorf("bundle %q: virtual: %w", b.Name, err)
		}
		rb := rawBundle{
			Name:       b.Name,
			Virtual:    virtual,
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

// parseXMLBool accepts "true" or "false" in any letter case, surrounded by
// optional whitespace. An empty attribute is false. Numeric and single-letter
// forms are rejected.
func parseXMLBool(v string) (bool, error) {
	switch v = strings.TrimSpace(v); {
	case v == "", strings.EqualFold(v, "false"):
		return false, nil
	case strings.EqualFold(v, "true"):
		return true, nil
	default:
		return false, fmt.Errorf("invalid boolean %q: want true or false", v)
	}
}
