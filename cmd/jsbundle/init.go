// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/template"

	"github.com/jsbundle/jsbundle/internal/discovery"
	"github.com/jsbundle/jsbundle/pkg/bundleconf"

	"github.com/spf13/cobra"
)

// starterModules are the modules referenced by every starter document.
var starterModules = []string{"vendor/jquery", "app/main"}

func newInitCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var (
		format      string
		force       bool
		withSources bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter config document",
		Long: `Create a starter jsbundle config document in the project root.

The document declares a virtual "vendor" bundle and an "app" bundle that
includes it. With --with-sources, empty module files are created too so
that 'jsbundle plan' succeeds right away.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := bundleconf.ParseFormat(format)
			if err != nil {
				return usageError(err)
			}
			root, err := discovery.ResolveRoot(rootFlags.project)
			if err != nil {
				return err
			}

			path := filepath.Join(root, f.FileName())
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("file '%s' already exists. Use --force to overwrite", path)
			}

			content := starterDocument(f, app.settings.EntryPoint)
			if _, err := bundleconf.Parse([]byte(content), f, path); err != nil {
				return fmt.Errorf("starter document does not parse: %w", err)
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), path)

			if withSources {
				if err := writeStarterSources(app, root, app.settings.EntryPoint); err != nil {
					return err
				}
			}

			fmt.Fprintln(app.stdout)
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("Next steps:"))
			fmt.Fprintln(app.stdout, "  1. Edit the document to declare your bundles")
			fmt.Fprintln(app.stdout, "  2. Run 'jsbundle validate' to check it")
			fmt.Fprintln(app.stdout, "  3. Run 'jsbundle plan' to see what will be built")
			return nil
		},
	}

	initCmd.Flags().StringVar(&format, "format", string(bundleconf.FormatCUE), "document format (cue, hcl, toml, yaml, xml)")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing document")
	initCmd.Flags().BoolVar(&withSources, "with-sources", false, "also create empty module source files")

	return initCmd
}

// writeStarterSources creates the starter module files that do not exist yet.
func writeStarterSources(app *App, root, entryPoint string) error {
	for _, module := range starterModules {
		path := filepath.Join(root, entryPoint, filepath.FromSlash(module)+".js")
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create source directory: %w", err)
		}
		if err := os.WriteFile(path, []byte("// "+module+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write source: %w", err)
		}
		fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), path)
	}
	return nil
}

// starterDocument returns the starter document in the given format.
func starterDocument(f bundleconf.Format, entryPoint string) string {
	quoted := strconv.Quote(entryPoint)
	switch f {
	case bundleconf.FormatHCL:
		return fmt.Sprintf(`entry_point = %s

path "jquery" {
  value = "vendor/jquery"
}

bundle "vendor" {
  virtual = true
  item "jquery" {}
}

bundle "app" {
  includes = "vendor"
  item "app/main" {
    compression = "min"
  }
}
`, quoted)
	case bundleconf.FormatTOML:
		return fmt.Sprintf(`entryPoint = %s

[[paths]]
key = "jquery"
value = "vendor/jquery"

[[bundles]]
name = "vendor"
virtual = true

  [[bundles.items]]
  path = "jquery"

[[bundles]]
name = "app"
includes = "vendor"

  [[bundles.items]]
  path = "app/main"
  compression = "min"
`, quoted)
	case bundleconf.FormatYAML:
		return fmt.Sprintf(`entryPoint: %s
paths:
  - key: jquery
    value: vendor/jquery
bundles:
  - name: vendor
    virtual: true
    items:
      - path: jquery
  - name: app
    includes: vendor
    items:
      - path: app/main
        compression: min
`, quoted)
	case bundleconf.FormatXML:
		return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<jsbundle entryPoint="%s">
  <paths>
    <path key="jquery" value="vendor/jquery"/>
  </paths>
  <bundles>
    <bundle name="vendor" virtual="true">
      <bundleItem path="jquery"/>
    </bundle>
    <bundle name="app" includes="vendor">
      <bundleItem path="app/main" compression="min"/>
    </bundle>
  </bundles>
</jsbundle>
`, template.HTMLEscapeString(entryPoint))
	default:
		return fmt.Sprintf(`// jsbundle configuration. Run 'jsbundle plan' to see the result.
entryPoint: %s

// Module names are mapped to <entryPoint>/<path>.js; aliases substitute a
// different path for a module name.
paths: [{key: "jquery", value: "vendor/jquery"}]

bundles: [
	// Virtual bundles are only included by other bundles.
	{name: "vendor", virtual: true, items: [{path: "jquery"}]},
	{name: "app", includes: "vendor", items: [{path: "app/main", compression: "min"}]},
]
`, quoted)
	}
}
