// SPDX-License-Identifier: MPL-2.0

package bundleconf

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jsbundle/jsbundle/pkg/cueutil"
)

// ParseFile reads and parses the document at path, choosing the decoder from
// the file extension.
func ParseFile(path string, opts ...Option) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read config document: %w", err)
	}
	if info.Size() > o.maxFileSize {
		return nil, &MalformedDocumentError{
			Path:  path,
			Cause: fmt.Errorf("file size %d bytes exceeds maximum %d bytes", info.Size(), o.maxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config document: %w", err)
	}
	return parse(data, format, path, o)
}

// Parse decodes data in the given format. name is used in error messages and
// recorded as Document.Path.
func Parse(data []byte, format Format, name string, opts ...Option) (*Document, error) {
	return parse(data, format, name, newOptions(opts))
}

func parse(data []byte, format Format, name string, o options) (*Document, error) {
	malformed := func(err error) error {
		return &MalformedDocumentError{Path: name, Cause: err}
	}

	if err := cueutil.CheckFileSize(data, o.maxFileSize, name); err != nil {
		return nil, malformed(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, malformed(errEmptyDocument)
	}

	var (
		doc *Document
		err error
	)
	switch format {
	case FormatCUE:
		doc, err = decodeCUE(data, name)
	case FormatHCL:
		doc, err = decodeHCL(data, name)
	case FormatTOML:
		doc, err = decodeTOML(data)
	case FormatYAML:
		doc, err = decodeYAML(data)
	case FormatXML:
		doc, err = decodeXML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, malformed(err)
	}

	if err := doc.normalize(o); err != nil {
		return nil, malformed(err)
	}
	doc.Path = name
	return doc, nil
}
