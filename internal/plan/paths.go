// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SourceExt is appended to every substituted module name.
const SourceExt = ".js"

type (
	// StatFunc reports file information for a path. It matches os.Stat.
	StatFunc func(name string) (fs.FileInfo, error)

	// PathOption configures ResolvePaths.
	PathOption func(*pathOptions)

	pathOptions struct {
		stat        StatFunc
		concurrency int
	}

	// itemRef addresses one declared item.
	itemRef struct {
		def *BundleDefinition
		idx int
	}
)

// WithStat replaces os.Stat for existence checks.
func WithStat(stat StatFunc) PathOption {
	return func(o *pathOptions) {
		if stat != nil {
			o.stat = stat
		}
	}
}

// WithConcurrency bounds the number of concurrent existence checks.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithConcurrency(n int) PathOption {
	return func(o *pathOptions) { o.concurrency = n }
}

// PhysicalPath maps a module name to its source file:
// projectRoot/entryPoint/<alias-substituted name>.js.
func (c *Configuration) PhysicalPath(projectRoot, moduleName string) string {
	return filepath.Join(projectRoot, c.EntryPoint, filepath.FromSlash(c.Aliases.Resolve(moduleName)+SourceExt))
}

// ResolvePaths stamps every declared item of every bundle with its physical
// path and checks that the file exists. The alias table is frozen on entry.
//
// Checks may run concurrently, but the returned error is always the one for
// the first failing item in declaration order.
func (c *Configuration) ResolvePaths(ctx context.Context, projectRoot string, opts ...PathOption) error {
	o := pathOptions{stat: os.Stat}
	for _, opt := range opts {
		opt(&o)
	}
	if o.concurrency < 1 {
		o.concurrency = runtime.GOMAXPROCS(0)
	}

	c.Aliases.Freeze()

	var refs []itemRef
	for _, def := range c.Bundles() {
		for i := range def.declared {
			def.declared[i].PhysicalPath = c.PhysicalPath(projectRoot, def.declared[i].ModuleName)
			refs = append(refs, itemRef{def: def, idx: i})
		}
	}

	errs := make([]error, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item := ref.def.declared[ref.idx]
			if _, err := o.stat(item.PhysicalPath); err != nil {
				errs[i] = &SourceNotFoundError{
					Bundle: ref.def.Name,
					Module: item.ModuleName,
					Path:   item.PhysicalPath,
					Cause:  notExist(err),
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// notExist normalizes stat failures so callers can always match fs.ErrNotExist.
func notExist(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return errors.Join(fs.ErrNotExist, err)
}
