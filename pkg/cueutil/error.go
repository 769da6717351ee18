// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

type (
	// FieldIssue is one CUE error attached to a field.
	FieldIssue struct {
		// Path is the JSON path to the invalid value (e.g., "bundles[0].name").
		// Empty for document-level errors such as syntax errors.
		Path string
		// Message is the CUE error message with the path prefix stripped.
		Message string
	}

	// ValidationError collects the CUE errors reported for one file.
	ValidationError struct {
		FilePath string
		Issues   []FieldIssue
	}
)

// Error implements the error interface.
//
// Format: <file-path>: <json-path>: <message> for a single issue, and an
// indented list after "validation failed" for several.
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Path != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", is.Path, is.Message))
		} else {
			lines = append(lines, is.Message)
		}
	}
	switch len(lines) {
	case 0:
		return fmt.Sprintf("%s: validation failed", e.FilePath)
	case 1:
		return fmt.Sprintf("%s: %s", e.FilePath, lines[0])
	default:
		return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
	}
}

// FormatError converts a CUE error into a *ValidationError whose issues carry
// JSON-path prefixes, e.g.
//
//	jsbundle.cue: bundles[0].includes: conflicting values "a" and [...string]
//
// Errors that are not CUE errors are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	verr := &ValidationError{FilePath: filePath}
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path at the start of the message.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimPrefix(msg, pathStr)
			msg = strings.TrimPrefix(msg, ":")
			msg = strings.TrimSpace(msg)
		}
		verr.Issues = append(verr.Issues, FieldIssue{Path: pathStr, Message: msg})
	}
	return verr
}

// formatPath converts a CUE error path such as ["bundles", "0", "name"] to
// JSON-path notation ("bundles[0].name").
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var result strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
			continue
		}
		if i > 0 {
			result.WriteString(".")
		}
		result.WriteString(part)
	}
	return result.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns an error when data exceeds maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
