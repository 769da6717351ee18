// SPDX-License-Identifier: MPL-2.0

package bundleconf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsbundle/jsbundle/pkg/cueutil"
)

const (
	// FormatCUE identifies CUE documents (.cue).
	FormatCUE Format = "cue"
	// FormatHCL identifies HCL documents (.hcl).
	FormatHCL Format = "hcl"
	// FormatTOML identifies TOML documents (.toml).
	FormatTOML Format = "toml"
	// FormatYAML identifies YAML documents (.yaml, .yml).
	FormatYAML Format = "yaml"
	// FormatXML identifies XML documents (.xml).
	FormatXML Format = "xml"

	// BaseName is the conventional document file name without extension.
	BaseName = "jsbundle"

	// MaxFileSize is the largest document accepted, in bytes.
	MaxFileSize = cueutil.DefaultMaxFileSize
)

var (
	// ErrMalformedDocument is the sentinel error wrapped by MalformedDocumentError.
	ErrMalformedDocument = errors.New("malformed config document")
	// ErrUnsupportedFormat is returned for file extensions no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported config document format")
)

type (
	// Format names a document syntax.
	Format string

	// Document is one parsed configuration document.
	Document struct {
		// Path is the file the document was read from, if any.
		Path       string      `json:"-"`
		EntryPoint string      `json:"entryPoint,omitempty"`
		Paths      []PathAlias `json:"paths,omitempty"`
		Bundles    []Bundle    `json:"bundles,omitempty"`
	}

	// PathAlias maps a module name to a substitute path.
	PathAlias struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}

	// Bundle is a bundle definition as written in a document.
	Bundle struct {
		Name       string   `json:"name"`
		Virtual    bool     `json:"virtual,omitempty"`
		OutputPath string   `json:"outputPath,omitempty"`
		Includes   []string `json:"includes,omitempty"`
		Items      []Item   `json:"items,omitempty"`
	}

	// Item references one module of a bundle.
	Item struct {
		Path        string `json:"path"`
		Compression string `json:"compression,omitempty"`
	}

	// MalformedDocumentError is returned when a document cannot be decoded or
	// violates the document shape.
	MalformedDocumentError struct {
		Path  string
		Cause error
	}

	// Option configures parsing.
	Option func(*options)

	options struct {
		lookupEnv   func(string) (string, bool)
		maxFileSize int64
	}
)

// Error implements the error interface.
func (e *MalformedDocumentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed config document: %v", e.Cause)
	}
	return fmt.Sprintf("malformed config document %s: %v", e.Path, e.Cause)
}

// Unwrap exposes both ErrMalformedDocument and the decoder error.
func (e *MalformedDocumentError) Unwrap() []error {
	return []error{ErrMalformedDocument, e.Cause}
}

// Formats returns every supported format in preference order.
func Formats() []Format {
	return []Format{FormatCUE, FormatHCL, FormatTOML, FormatYAML, FormatXML}
}

// Ext returns the canonical file extension, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// FileName returns the conventional document name for the format.
func (f Format) FileName() string { return BaseName + f.Ext() }

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cue":
		return FormatCUE, nil
	case "hcl":
		return FormatHCL, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xml":
		return FormatXML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath selects the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// WithLookupEnv replaces os.LookupEnv for $VAR expansion.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(o *options) {
		if lookup != nil {
			o.lookupEnv = lookup
		}
	}
}

// WithMaxFileSize overrides MaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *options) { o.maxFileSize = size }
}

func newOptions(opts []Option) options {
	o := options{lookupEnv: os.LookupEnv, maxFileSize: MaxFileSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// BundleNames returns the declared bundle names in document order.
func (d *Document) BundleNames() []string {
	names := make([]string, 0, len(d.Bundles))
	for _, b := range d.Bundles {
		names = append(names, b.Name)
	}
	return names
}
