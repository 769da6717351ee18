// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jsbundle/jsbundle/internal/app/planner"
	"github.com/jsbundle/jsbundle/internal/plan"

	"github.com/spf13/cobra"
)

// planFlagValues holds the flags of `jsbundle plan`.
type planFlagValues struct {
	documents   []string
	format      string
	output      string
	watch       bool
	clearScreen bool
}

func newPlanCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &planFlagValues{}

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the bundle plan",
		Long: `Print the ordered list of bundles to build.

Config documents are discovered under the project root unless given with
--config. Documents are merged in order: the first definition of each
bundle and path alias wins, as does the first entry point.

Virtual bundles are resolved but never emitted.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(flags.format)
			if err != nil {
				return usageError(err)
			}
			req := planner.Request{ProjectRoot: rootFlags.project, Documents: flags.documents}
			if flags.watch {
				return runWatchMode(cmd.Context(), app, req, format, flags)
			}
			return runPlan(cmd.Context(), app, req, format, flags.output)
		},
	}

	planCmd.Flags().StringArrayVarP(&flags.documents, "config", "c", nil, "config document to merge (repeatable, default: discover under the project root)")
	planCmd.Flags().StringVarP(&flags.format, "format", "f", string(formatText), "output format (text, json, yaml, cue)")
	planCmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the plan to a file instead of stdout")
	planCmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-plan whenever documents or sources change")
	planCmd.Flags().BoolVar(&flags.clearScreen, "clear", false, "clear the screen before each re-plan (with --watch)")

	return planCmd
}

// runPlan plans once and writes the result.
func runPlan(ctx context.Context, app *App, req planner.Request, format outputFormat, output string) error {
	res, err := app.plan(ctx, req)
	if err != nil {
		return err
	}
	renderDiagnostics(app.stderr, res.Diagnostics)
	return writePlan(app, res.Plan, format, output)
}

// writePlan prints p to stdout, or to output when it is set.
func writePlan(app *App, p *plan.Plan, format outputFormat, output string) error {
	data, err := encodePlan(p, format, output == "")
	if err != nil {
		return err
	}

	if output == "" {
		_, err = app.stdout.Write(data)
		return err
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	fmt.Fprintf(app.stderr, "%s Wrote %d bundle(s) to %s\n", SuccessStyle.Render("✓"), len(p.Bundles), output)
	return nil
}
