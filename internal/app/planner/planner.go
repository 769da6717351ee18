// SPDX-License-Identifier: MPL-2.0

package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jsbundle/jsbundle/internal/config"
	"github.com/jsbundle/jsbundle/internal/discovery"
	"github.com/jsbundle/jsbundle/internal/issue"
	"github.com/jsbundle/jsbundle/internal/plan"
	"github.com/jsbundle/jsbundle/pkg/bundleconf"
)

type (
	// Option customizes a Planner.
	Option func(*Planner)

	// Planner produces bundle plans using one set of tool settings.
	Planner struct {
		cfg       *config.Config
		logger    *slog.Logger
		stat      plan.StatFunc
		lookupEnv func(string) (string, bool)
	}

	// Request selects the project to plan.
	Request struct {
		// ProjectRoot is the project directory; empty means the working directory.
		ProjectRoot string
		// Documents are explicit config documents, merged in the given order.
		// Relative paths are taken relative to the working directory. When
		// empty, documents are discovered under ProjectRoot.
		Documents []string
	}

	// Result is the outcome of a successful planning run.
	Result struct {
		Plan *plan.Plan
		// Configuration is the resolved configuration the plan was emitted from.
		Configuration *plan.Configuration
		// Documents are the absolute paths of the merged documents, in merge order.
		Documents []string
		// Layers lists bundle names in the order the resolver settled them.
		Layers [][]string
		// Diagnostics are non-fatal findings from discovery and merging.
		Diagnostics []discovery.Diagnostic
	}
)

// WithLogger sets the logger used for progress output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithStat replaces the file existence check used for module sources.
func WithStat(stat plan.StatFunc) Option {
	return func(p *Planner) {
		if stat != nil {
			p.stat = stat
		}
	}
}

// WithLookupEnv replaces the environment lookup used for CUE @env attributes.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(p *Planner) {
		if lookup != nil {
			p.lookupEnv = lookup
		}
	}
}

// New creates a Planner. A nil cfg selects config.DefaultConfig().
func New(cfg *config.Config, opts ...Option) *Planner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	p := &Planner{
		cfg:       cfg,
		logger:    slog.Default(),
		stat:      os.Stat,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan runs discovery, merging, path resolution, dependency resolution and
// emission for req.
func (p *Planner) Plan(ctx context.Context, req Request) (*Result, error) {
	root, err := discovery.ResolveRoot(req.ProjectRoot)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open project").
			WithResource(req.ProjectRoot).
			WithSuggestion("Pass an existing directory with --project").
			WithIssue(issue.ProjectRootNotFoundId).
			Wrap(err).
			BuildError()
	}
	log := p.logger.With("project", root)

	res := &Result{}
	res.Documents, res.Diagnostics, err = p.documents(ctx, root, req.Documents)
	if err != nil {
		return nil, err
	}
	log.Debug("documents selected", "count", len(res.Documents))

	cfg := plan.NewConfiguration(p.cfg.EntryPoint)
	for _, path := range res.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := bundleconf.ParseFile(path, bundleconf.WithLookupEnv(p.lookupEnv))
		if err != nil {
			return nil, documentError(path, err)
		}
		for _, d := range cfg.AddDocument(doc) {
			res.Diagnostics = append(res.Diagnostics, discovery.NewDiagnosticWithPath(
				discovery.SeverityWarning, discovery.CodeDocumentConflict,
				d.Code+": "+d.Message, d.Path))
		}
	}
	log.Debug("configuration merged",
		"entry_point", cfg.EntryPoint, "bundles", cfg.Len(), "aliases", cfg.Aliases.Len())

	if err := cfg.ResolvePaths(ctx, root,
		plan.WithStat(p.stat), plan.WithConcurrency(p.cfg.Concurrency)); err != nil {
		return nil, resolveError(err)
	}

	resolution, err := cfg.Resolve()
	if err != nil {
		return nil, resolveError(err)
	}
	for i, layer := range resolution.Layers {
		log.Debug("layer resolved", "layer", i, "bundles", strings.Join(layer, ","))
	}

	out, err := cfg.Emit(root)
	if err != nil {
		return nil, fmt.Errorf("emit plan: %w", err)
	}

	res.Plan = out
	res.Configuration = cfg
	res.Layers = resolution.Layers
	return res, nil
}

// documents returns the absolute document paths to merge, either the
// explicit ones or those discovered under root.
func (p *Planner) documents(ctx context.Context, root string, explicit []string) ([]string, []discovery.Diagnostic, error) {
	if len(explicit) > 0 {
		paths := make([]string, 0, len(explicit))
		for _, doc := range explicit {
			abs, err := filepath.Abs(doc)
			if err != nil {
				return nil, nil, notFoundError(doc, err)
			}
			if _, err := os.Stat(abs); err != nil {
				return nil, nil, notFoundError(abs, fmt.Errorf("%w: %w", discovery.ErrNoConfigDocuments, err))
			}
			if !slices.Contains(paths, abs) {
				paths = append(paths, abs)
			}
		}
		return paths, nil, nil
	}

	found, err := discovery.Discover(ctx, root, discovery.Options{
		Patterns: p.cfg.Discovery.Patterns,
		Ignore:   p.cfg.Discovery.Ignore,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, err
		}
		var patErr *discovery.PatternError
		if errors.As(err, &patErr) {
			return nil, nil, issue.NewErrorContext().
				WithOperation("discover config documents").
				WithResource(root).
				WithSuggestion("Fix discovery.patterns or discovery.ignore in your settings").
				Wrap(err).
				BuildError()
		}
		return nil, nil, notFoundError(root, err)
	}
	return found.Documents, found.Diagnostics, nil
}

func notFoundError(resource string, err error) error {
	return issue.NewErrorContext().
		WithOperation("find config documents").
		WithResource(resource).
		WithSuggestions(
			"Run 'jsbundle init' to create a starter document",
			"Pass a document explicitly with --config",
		).
		WithIssue(issue.ConfigNotFoundId).
		Wrap(err).
		BuildError()
}

func documentError(path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return notFoundError(path, err)
	}
	return issue.NewErrorContext().
		WithOperation("parse config document").
		WithResource(path).
		WithSuggestion("Run 'jsbundle validate' to see every problem in the document").
		WithIssue(issue.MalformedDocumentId).
		Wrap(err).
		BuildError()
}

func resolveError(err error) error {
	var (
		notFound *plan.BundleNotFoundError
		missing  *plan.SourceNotFoundError
		cycle    *plan.CycleError
	)
	switch {
	case errors.As(err, &notFound):
		return issue.NewErrorContext().
			WithOperation("resolve bundle includes").
			WithResource(notFound.ReferencedBy).
			WithSuggestion(fmt.Sprintf("Declare bundle %q or remove it from the includes list", notFound.Name)).
			WithIssue(issue.BundleNotFoundId).
			Wrap(err).
			BuildError()
	case errors.As(err, &missing):
		return issue.NewErrorContext().
			WithOperation("resolve module sources").
			WithResource(missing.Path).
			WithSuggestion("Create the file or add a path alias for the module").
			WithIssue(issue.SourceNotFoundId).
			Wrap(err).
			BuildError()
	case errors.As(err, &cycle):
		return issue.NewErrorContext().
			WithOperation("resolve bundle includes").
			WithResource(strings.Join(cycle.Unresolved, ", ")).
			WithSuggestion("Remove one include so the bundles no longer depend on each other").
			WithIssue(issue.DependencyCycleId).
			Wrap(err).
			BuildError()
	default:
		return err
	}
}
