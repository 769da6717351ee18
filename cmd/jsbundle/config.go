// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jsbundle/jsbundle/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `jsbundle config` command tree. Subcommands
// read the settings loaded by the root command.
func newConfigCommand(app *App, _ *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage jsbundle settings",
		Long: `Manage jsbundle settings.

Settings are stored in:
  - Linux: ~/.config/jsbundle/config.cue
  - macOS: ~/Library/Application Support/jsbundle/config.cue
  - Windows: %APPDATA%\jsbundle\config.cue

A jsbundle.config.cue in the working directory is used when no settings
file exists there. JSBUNDLE_* environment variables override both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			showConfig(app)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective settings as CUE",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(app.stdout, config.GenerateCUE(app.settings))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default settings file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig("")
			if err != nil {
				return fmt.Errorf("failed to create settings: %w", err)
			}
			fmt.Fprintf(app.stdout, "%s Settings file at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Show the settings file path",
		Args:        usageArgs(cobra.NoArgs),
		Annotations: map[string]string{skipSettingsAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(app.stdout, "Config file: %s\n",
				filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(app *App) {
	w := app.stdout
	cfg := app.settings
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Settings"))
	fmt.Fprintln(w)
	if app.settingsPath != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Settings file"), app.settingsPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Settings file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("entry_point"), valueStyle.Render(cfg.EntryPoint))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("concurrency"), valueStyle.Render(fmt.Sprint(cfg.Concurrency)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("log_level"), valueStyle.Render(cfg.LogLevel.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("discovery"))
	fmt.Fprintf(w, "  patterns: %s\n", listOrNone(cfg.Discovery.Patterns))
	fmt.Fprintf(w, "  ignore: %s\n", listOrNone(cfg.Discovery.Ignore))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
	fmt.Fprintf(w, "  color: %s\n", valueStyle.Render(cfg.UI.Color.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(w, "  debounce: %s\n", valueStyle.Render(cfg.Watch.Debounce.String()))
}

func listOrNone(values []string) string {
	if len(values) == 0 {
		return SubtitleStyle.Render("(none)")
	}
	return SuccessStyle.Render(strings.Join(values, ", "))
}
