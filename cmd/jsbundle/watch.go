// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jsbundle/jsbundle/internal/app/planner"
	"github.com/jsbundle/jsbundle/internal/discovery"
	"github.com/jsbundle/jsbundle/internal/watch"
)

// runWatchMode plans once immediately, then re-plans whenever a config
// document or a script source under the entry point changes. When a re-plan
// moves the entry point, the watcher restarts on the new script root. It
// blocks until ctx is canceled (e.g. Ctrl+C).
func runWatchMode(ctx context.Context, app *App, req planner.Request, format outputFormat, flags *planFlagValues) error {
	root, err := discovery.ResolveRoot(req.ProjectRoot)
	if err != nil {
		// Let the planner report the missing root with its full context.
		return runPlan(ctx, app, req, format, flags.output)
	}

	var (
		mu         sync.Mutex
		entryPoint = app.settings.EntryPoint
	)
	currentEntryPoint := func() string {
		mu.Lock()
		defer mu.Unlock()
		return entryPoint
	}
	replan := func(ctx context.Context) {
		res, err := app.plan(ctx, req)
		if err == nil {
			mu.Lock()
			entryPoint = res.Plan.EntryPoint
			mu.Unlock()
			renderDiagnostics(app.stderr, res.Diagnostics)
			err = writePlan(app, res.Plan, format, flags.output)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			// Keep watching: the user may fix the error and save again.
			app.renderError(app.stderr, err)
		}
	}

	fmt.Fprintf(app.stderr, "%s Watch mode: initial plan\n", VerboseHighlightStyle.Render("→"))
	replan(ctx)

	for {
		watched := currentEntryPoint()
		runCtx, restart := context.WithCancel(ctx)

		cfg := watch.Config{
			Documents:   watchDocuments(root, req.Documents, app.settings.Discovery.Patterns),
			Sources:     watchSources(watched),
			Ignore:      watchIgnores(root, app.settings.Discovery.Ignore, flags.output),
			Debounce:    app.settings.Watch.Debounce,
			ClearScreen: flags.clearScreen,
			BaseDir:     root,
			OnChange: func(ctx context.Context, changes []watch.Change) error {
				fmt.Fprintf(app.stderr, "%s Detected %d change(s), re-planning...\n",
					VerboseHighlightStyle.Render("→"), len(changes))
				for _, c := range changes {
					app.logger.Debug("changed", "path", c.Path, "kind", c.Kind)
				}
				replan(ctx)
				if currentEntryPoint() != watched {
					restart()
				}
				return nil
			},
			Stdout: app.stdout,
			Logger: app.logger,
		}

		w, err := watch.New(cfg)
		if err != nil {
			restart()
			return fmt.Errorf("failed to start watcher: %w", err)
		}

		fmt.Fprintf(app.stderr, "%s Watching %s for changes (Ctrl+C to stop)...\n",
			VerboseHighlightStyle.Render("→"), root)
		err = w.Run(runCtx)
		restart()
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(app.stderr, "%s Entry point changed to %s, restarting watcher\n",
			VerboseHighlightStyle.Render("→"), currentEntryPoint())
	}
}

// watchSources selects every script below the entry point.
func watchSources(entryPoint string) []string {
	return []string{path.Join(filepath.ToSlash(entryPoint), "**", "*.js")}
}

// watchDocuments returns the document patterns relative to root: the explicit
// documents when given, otherwise the discovery patterns.
func watchDocuments(root string, explicit, patterns []string) []string {
	if len(explicit) == 0 {
		if len(patterns) == 0 {
			return []string{discovery.DefaultPattern}
		}
		return patterns
	}
	out := make([]string, 0, len(explicit))
	for _, doc := range explicit {
		if rel, ok := relativeTo(root, doc); ok {
			out = append(out, rel)
		}
	}
	if len(out) == 0 {
		return []string{discovery.DefaultPattern}
	}
	return out
}

// watchIgnores adds the plan output file, when it lies inside root, to the
// configured ignores so writing the plan does not trigger another run.
func watchIgnores(root string, ignores []string, output string) []string {
	out := append([]string(nil), ignores...)
	if output == "" {
		return out
	}
	if rel, ok := relativeTo(root, output); ok {
		out = append(out, rel)
	}
	return out
}

// relativeTo returns p relative to root with forward slashes. ok is false
// when p lies outside root.
func relativeTo(root, p string) (string, bool) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
