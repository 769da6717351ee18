// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for jsbundle.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jsbundle/jsbundle/internal/config"
	"github.com/jsbundle/jsbundle/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// skipSettingsAnnotation marks commands that must work with broken settings.
const skipSettingsAnnotation = "jsbundle/skip-settings"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	verbose      bool
	settingsPath string
	logLevel     string
	color        string
	project      string
}

// NewRootCommand builds the jsbundle command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "jsbundle",
		Short: "Plan JavaScript bundles from declarative config documents",
		Long: TitleStyle.Render("jsbundle") + SubtitleStyle.Render(" - Plan JavaScript bundles from declarative config documents") + `

jsbundle reads bundle definitions from jsbundle.{cue,hcl,toml,yaml,xml}
documents, maps module names to source files under the entry point,
flattens bundle includes, and prints the ordered list of bundles to build.

` + SubtitleStyle.Render("Examples:") + `
  jsbundle init               Create a starter jsbundle.cue
  jsbundle plan               Print the bundle plan
  jsbundle plan -f json       Print the plan as JSON
  jsbundle plan --watch       Re-plan when documents or sources change
  jsbundle graph              Show how bundles include each other`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipSettingsAnnotation] == "true" {
				return nil
			}
			return app.loadSettings(cmd.Context(), flags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.settingsPath, "settings", "", "settings file (default is $XDG_CONFIG_HOME/jsbundle/config.cue)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.color, "color", "", "color scheme (auto, dark, light, none)")
	pf.StringVarP(&flags.project, "project", "C", "", "project root (default is the working directory)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError(err) })
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newPlanCommand(app, flags),
		newValidateCommand(app, flags),
		newGraphCommand(app, flags),
		newInitCommand(app, flags),
		newConfigCommand(app, flags),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process with the resulting status.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	// fang.WithVersion is required because fang overrides rootCmd.Version.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			app.renderError(w, err)
		}),
	); err != nil {
		os.Exit(int(exitCodeFor(err)))
	}
}

// exitCodeFor maps a command error to the process exit status.
func exitCodeFor(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return types.ExitFailure
}

// loadSettings loads tool settings and applies persistent flag overrides.
func (a *App) loadSettings(ctx context.Context, flags *rootFlagValues) error {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.settingsPath})
	if err != nil {
		return err
	}
	cfg := loaded.Config

	if flags.verbose {
		cfg.UI.Verbose = true
	}
	if flags.logLevel != "" {
		level := config.LogLevel(flags.logLevel)
		if valid, errs := level.IsValid(); !valid {
			return usageError(errs[0])
		}
		cfg.LogLevel = level
	}
	if flags.color != "" {
		scheme := config.ColorScheme(flags.color)
		if valid, errs := scheme.IsValid(); !valid {
			return usageError(errs[0])
		}
		cfg.UI.Color = scheme
	}
	if cfg.UI.Color == config.ColorSchemeNone {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	a.settings = cfg
	a.settingsPath = loaded.Path
	a.logger = newLogger(a.stderr, cfg)
	a.logger.Debug("settings loaded", "path", loaded.Path, "entry_point", cfg.EntryPoint)
	return nil
}
