// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/jsbundle/jsbundle/internal/app/planner"
	"github.com/jsbundle/jsbundle/internal/config"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: Cobra command handlers receive an App reference and delegate
	// through its service interfaces.
	App struct {
		Config  ConfigProvider
		Planner PlanService
		stdout  io.Writer
		stderr  io.Writer

		// Set by the root command before any subcommand runs.
		settings     *config.Config
		settingsPath string
		logger       *slog.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config  ConfigProvider
		Planner PlanService
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// ConfigProvider loads tool settings using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Loaded, error)
	}

	// PlanService produces a bundle plan for one project.
	PlanService interface {
		Plan(ctx context.Context, cfg *config.Config, req planner.Request, opts ...planner.Option) (*planner.Result, error)
	}

	defaultPlanService struct{}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Planner == nil {
		deps.Planner = defaultPlanService{}
	}

	return &App{
		Config:   deps.Config,
		Planner:  deps.Planner,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
		settings: config.DefaultConfig(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (defaultPlanService) Plan(ctx context.Context, cfg *config.Config, req planner.Request, opts ...planner.Option) (*planner.Result, error) {
	return planner.New(cfg, opts...).Plan(ctx, req)
}

// plan runs the PlanService with the loaded settings and the App logger.
func (a *App) plan(ctx context.Context, req planner.Request) (*planner.Result, error) {
	return a.Planner.Plan(ctx, a.settings, req, planner.WithLogger(a.logger))
}

// newLogger builds the structured logger for one invocation. Output is
// rendered by charmbracelet/log and filtered at the configured level.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, err := log.ParseLevel(string(cfg.LogLevel))
	if err != nil {
		level = log.InfoLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: config.AppName,
	})
	if cfg.UI.Color == config.ColorSchemeNone {
		handler.SetColorProfile(termenv.Ascii)
	}
	return slog.New(handler)
}
