// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/jsbundle/jsbundle/internal/app/planner"

	"github.com/spf13/cobra"
)

// ErrDiagnosticsReported is returned by `validate --strict` when merging or
// discovery produced warnings.
var ErrDiagnosticsReported = errors.New("configuration produced warnings")

func newValidateCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var (
		documents []string
		strict    bool
	)

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check config documents without printing the plan",
		Long: `Check that config documents parse, that every included bundle exists,
that every module source file exists, and that bundle includes contain no
cycles.

With --strict, warnings such as redefined bundles also fail validation.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.plan(cmd.Context(), planner.Request{ProjectRoot: rootFlags.project, Documents: documents})
			if err != nil {
				return err
			}
			renderDiagnostics(app.stderr, res.Diagnostics)
			writeValidationSummary(app, res)
			if strict && len(res.Diagnostics) > 0 {
				return fmt.Errorf("%w: %d warning(s)", ErrDiagnosticsReported, len(res.Diagnostics))
			}
			return nil
		},
	}

	validateCmd.Flags().StringArrayVarP(&documents, "config", "c", nil, "config document to merge (repeatable, default: discover under the project root)")
	validateCmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")

	return validateCmd
}

func writeValidationSummary(app *App, res *planner.Result) {
	w := app.stdout
	virtual := 0
	for _, def := range res.Configuration.Bundles() {
		if def.Virtual {
			virtual++
		}
	}

	fmt.Fprintf(w, "%s Configuration is valid\n", SuccessStyle.Render("✓"))
	fmt.Fprintf(w, "  %s %d\n", CmdStyle.Render("Documents:"), len(res.Documents))
	if app.settings.UI.Verbose {
		for _, doc := range res.Documents {
			fmt.Fprintf(w, "    - %s\n", VerboseStyle.Render(relPath(res.Plan.ProjectRoot, doc)))
		}
	}
	fmt.Fprintf(w, "  %s %d (%d emitted, %d virtual)\n",
		CmdStyle.Render("Bundles:"), res.Configuration.Len(), len(res.Plan.Bundles), virtual)
	fmt.Fprintf(w, "  %s %d\n", CmdStyle.Render("Aliases:"), res.Configuration.Aliases.Len())
	fmt.Fprintf(w, "  %s %d\n", CmdStyle.Render("Layers:"), len(res.Layers))
}
