// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBundleNotFound is the sentinel error wrapped by BundleNotFoundError.
	ErrBundleNotFound = errors.New("bundle not found")
	// ErrSourceNotFound is the sentinel error wrapped by SourceNotFoundError.
	ErrSourceNotFound = errors.New("source file not found")
	// ErrDependencyCycle is the sentinel error wrapped by CycleError.
	ErrDependencyCycle = errors.New("dependency cycle")
	// ErrUnresolvedBundle is returned when a bundle is emitted before it was resolved.
	ErrUnresolvedBundle = errors.New("bundle is not resolved")
	// ErrAlreadyResolved is returned when Resolve runs twice on one Configuration.
	ErrAlreadyResolved = errors.New("configuration already resolved")
)

type (
	// BundleNotFoundError is returned when an includes entry names a bundle
	// that no loaded document defines.
	BundleNotFoundError struct {
		// Name is the missing bundle.
		Name string
		// ReferencedBy is the bundle whose includes list mentions Name.
		ReferencedBy string
	}

	// SourceNotFoundError is returned when a bundle item resolves to a
	// physical path that does not exist.
	SourceNotFoundError struct {
		Bundle string
		Module string
		Path   string
		// Cause is the underlying stat error.
		Cause error
	}

	// CycleError is returned when the includes graph cannot be resolved:
	// there is no dependency-free bundle, a resolution layer made no
	// progress, or the iteration bound tripped.
	CycleError struct {
		// Reason describes which check failed.
		Reason string
		// Unresolved lists the bundles left unresolved, in declaration order.
		Unresolved []string
		// Cycle is one concrete cycle among the unresolved bundles, if one
		// could be extracted.
		Cycle []string
	}
)

// Error implements the error interface.
func (e *BundleNotFoundError) Error() string {
	if e.ReferencedBy == "" {
		return fmt.Sprintf("bundle not found: %q", e.Name)
	}
	return fmt.Sprintf("bundle not found: %q (included by %q)", e.Name, e.ReferencedBy)
}

// Unwrap returns ErrBundleNotFound for errors.Is() compatibility.
func (e *BundleNotFoundError) Unwrap() error { return ErrBundleNotFound }

// Error implements the error interface.
func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source file not found: %s (module %q in bundle %q)", e.Path, e.Module, e.Bundle)
}

// Unwrap exposes both the sentinel and the stat error, so errors.Is matches
// ErrSourceNotFound as well as fs.ErrNotExist.
func (e *SourceNotFoundError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrSourceNotFound}
	}
	return []error{ErrSourceNotFound, e.Cause}
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Reason)
	if len(e.Cycle) > 0 {
		fmt.Fprintf(&sb, ": %s", strings.Join(e.Cycle, " -> "))
	} else if len(e.Unresolved) > 0 {
		fmt.Fprintf(&sb, ": unresolved bundles %s", strings.Join(e.Unresolved, ", "))
	}
	sb.WriteString(" - check for cycles")
	return sb.String()
}

// Unwrap returns ErrDependencyCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrDependencyCycle }
