// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/jsbundle/jsbundle/pkg/bundleconf"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches a config document of any supported format anywhere
// under the project root.
const DefaultPattern = "**/jsbundle.{cue,hcl,toml,yaml,yml,xml}"

// defaultIgnores are never descended into.
var defaultIgnores = []string{
	"**/.git",
	"**/.hg",
	"**/.svn",
	"**/node_modules",
	"**/bower_components",
}

var (
	// ErrProjectRootNotFound is returned when the project root does not exist
	// or is not a directory.
	ErrProjectRootNotFound = errors.New("project root not found")
	// ErrNoConfigDocuments is returned when no document matches the patterns.
	ErrNoConfigDocuments = errors.New("no config documents found")
)

type (
	// Options selects which files count as config documents.
	Options struct {
		// Patterns are doublestar globs relative to the root. Empty means
		// DefaultPattern.
		Patterns []string
		// Ignore are extra doublestar globs for paths to skip, merged with the
		// built-in ignores.
		Ignore []string
	}

	// Result lists discovered documents as absolute paths in lexical order of
	// their root-relative slash paths.
	Result struct {
		Root        string
		Documents   []string
		Diagnostics []Diagnostic
	}

	// PatternError is returned for a malformed doublestar pattern.
	PatternError struct {
		Pattern string
		Err     error
	}
)

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid discovery pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string { return slices.Clone(defaultIgnores) }

// ResolveRoot returns the absolute, cleaned project root. It fails with
// ErrProjectRootNotFound when root is missing or not a directory.
func ResolveRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrProjectRootNotFound, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrProjectRootNotFound, abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrProjectRootNotFound, abs)
	}
	return abs, nil
}

// Discover walks root and collects config documents. Unreadable
// subdirectories and matches with an unknown extension become diagnostics.
// The walk stops when ctx is canceled.
func Discover(ctx context.Context, root string, opts Options) (*Result, error) {
	absRoot, err := ResolveRoot(root)
	if err != nil {
		return nil, err
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	ignores := slices.Concat(defaultIgnores, opts.Ignore)
	for _, p := range slices.Concat(patterns, opts.Ignore) {
		if !doublestar.ValidatePattern(p) {
			return nil, &PatternError{Pattern: p, Err: doublestar.ErrBadPattern}
		}
	}

	res := &Result{Root: absRoot}
	var rels []string
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == absRoot {
				return err
			}
			res.Diagnostics = append(res.Diagnostics, NewDiagnosticWithCause(
				SeverityWarning, CodeDirectoryUnreadable,
				fmt.Sprintf("skipped unreadable path: %v", err), path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil || rel == "." {
			return nil //nolint:nilerr // the root itself is never a document
		}
		rel = filepath.ToSlash(rel)

		if matchAny(ignores, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !matchAny(patterns, rel) {
			return nil
		}

		if _, ferr := bundleconf.FormatFromPath(path); ferr != nil {
			res.Diagnostics = append(res.Diagnostics, NewDiagnosticWithCause(
				SeverityWarning, CodeUnsupportedFormat,
				"matched a discovery pattern but has no supported document extension", path, ferr))
			return nil
		}
		rels = append(rels, rel)
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrProjectRootNotFound, absRoot, walkErr)
	}

	if len(rels) == 0 {
		return nil, fmt.Errorf("%w under %s (patterns: %v)", ErrNoConfigDocuments, absRoot, patterns)
	}

	slices.Sort(rels)
	res.Documents = make([]string, 0, len(rels))
	for _, rel := range rels {
		res.Documents = append(res.Documents, filepath.Join(absRoot, filepath.FromSlash(rel)))
	}
	return res, nil
}

// matchAny reports whether the slash path matches one of the patterns.
func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}
