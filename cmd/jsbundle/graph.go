// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jsbundle/jsbundle/internal/app/planner"

	"github.com/spf13/cobra"
)

func newGraphCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var (
		documents []string
		dot       bool
	)

	graphCmd := &cobra.Command{
		Use:   "graph",
		Short: "Show how bundles include each other",
		Long: `Show bundles grouped by resolution layer. Layer 0 holds bundles with
no includes; every later layer holds bundles whose includes were all settled
by earlier layers.

With --dot, print the include graph in Graphviz format instead.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.plan(cmd.Context(), planner.Request{ProjectRoot: rootFlags.project, Documents: documents})
			if err != nil {
				return err
			}
			renderDiagnostics(app.stderr, res.Diagnostics)
			if dot {
				writeGraphDOT(app.stdout, res)
			} else {
				writeGraphLayers(app.stdout, res)
			}
			return nil
		},
	}

	graphCmd.Flags().StringArrayVarP(&documents, "config", "c", nil, "config document to merge (repeatable, default: discover under the project root)")
	graphCmd.Flags().BoolVar(&dot, "dot", false, "print the include graph in Graphviz DOT format")

	return graphCmd
}

func writeGraphLayers(w io.Writer, res *planner.Result) {
	if len(res.Layers) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No bundles defined."))
		return
	}
	for i, layer := range res.Layers {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Layer %d", i)))
		for _, name := range layer {
			def, ok := res.Configuration.Bundle(name)
			if !ok {
				continue
			}
			line := "  " + name
			if def.Virtual {
				line += " " + SubtitleStyle.Render("(virtual)")
			}
			if len(def.Includes) > 0 {
				line += " <- " + CmdStyle.Render(strings.Join(def.Includes, ", "))
			}
			fmt.Fprintf(w, "%s %s\n", line, VerboseStyle.Render(fmt.Sprintf("[%d file(s)]", len(def.Items()))))
		}
	}
}

// writeGraphDOT prints an edge from every parent to each bundle including it.
// Virtual bundles are drawn dashed.
func writeGraphDOT(w io.Writer, res *planner.Result) {
	fmt.Fprintln(w, "digraph bundles {")
	fmt.Fprintln(w, "  rankdir=LR;")
	for _, def := range res.Configuration.Bundles() {
		attrs := ""
		if def.Virtual {
			attrs = " [style=dashed]"
		}
		fmt.Fprintf(w, "  %s%s;\n", strconv.Quote(def.Name), attrs)
	}
	for _, def := range res.Configuration.Bundles() {
		for _, parent := range def.Includes {
			fmt.Fprintf(w, "  %s -> %s;\n", strconv.Quote(parent), strconv.Quote(def.Name))
		}
	}
	fmt.Fprintln(w, "}")
}
