// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/jsbundle/jsbundle/internal/issue"
	"github.com/jsbundle/jsbundle/internal/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	if cfg.EntryPoint != "scripts" {
		t.Errorf("expected default entry point scripts, got %q", cfg.EntryPoint)
	}
	if cfg.LogLevel != LogLevelInfo {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.UI.Color != ColorSchemeAuto {
		t.Errorf("expected default color scheme auto, got %s", cfg.UI.Color)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected default debounce 500ms, got %s", cfg.Watch.Debounce)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config should be valid: %v", errs)
	}
}

func loadFrom(t *testing.T, opts LoadOptions) (*Config, string, error) {
	t.Helper()
	loaded, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		return nil, "", err
	}
	return loaded.Config, loaded.Path, nil
}

func TestLoad_NoSettingsFile(t *testing.T) {
	t.Parallel()
	cfg, path, err := loadFrom(t, LoadOptions{ConfigDirPath: t.TempDir(), WorkDir: t.TempDir()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("expected no settings path, got %q", path)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ConfigDirFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `
entry_point: "src"
concurrency: 4
ui: color: "dark"
watch: debounce: "250ms"
discovery: ignore: ["vendor/**"]
`)

	cfg, path, err := loadFrom(t, LoadOptions{ConfigDirPath: dir, WorkDir: t.TempDir()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("unexpected settings path %q", path)
	}

	want := DefaultConfig()
	want.EntryPoint = "src"
	want.Concurrency = 4
	want.UI.Color = ColorSchemeDark
	want.Watch.Debounce = 250 * time.Millisecond
	want.Discovery.Ignore = []string{"vendor/**"}
	if diff := cmp.Diff(want, cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_WorkDirFallback(t *testing.T) {
	t.Parallel()
	work := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(work, LocalConfigFileName), `log_level: "debug"`)

	cfg, path, err := loadFrom(t, LoadOptions{ConfigDirPath: t.TempDir(), WorkDir: work})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(work, LocalConfigFileName) {
		t.Errorf("unexpected settings path %q", path)
	}
	if cfg.LogLevel != LogLevelDebug {
		t.Errorf("expected debug log level, got %s", cfg.LogLevel)
	}
}

func TestLoad_ConfigDirWinsOverWorkDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	work := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `entry_point: "from-dir"`)
	testutil.MustWriteFile(t, filepath.Join(work, LocalConfigFileName), `entry_point: "from-work"`)

	cfg, _, err := loadFrom(t, LoadOptions{ConfigDirPath: dir, WorkDir: work})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EntryPoint != "from-dir" {
		t.Errorf("expected config dir to win, got %q", cfg.EntryPoint)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()
	_, _, err := loadFrom(t, LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	if err == nil {
		t.Fatal("expected error for missing settings file")
	}
	ae, ok := issue.As(err)
	if !ok {
		t.Fatalf("expected *issue.ActionableError, got %T", err)
	}
	if ae.IssueID != issue.SettingsLoadFailedId {
		t.Errorf("expected SettingsLoadFailedId, got %d", ae.IssueID)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", `bogus: true`},
		{"empty entry point", `entry_point: ""`},
		{"negative concurrency", `concurrency: -1`},
		{"unknown log level", `log_level: "trace"`},
		{"unknown color", `ui: color: "neon"`},
		{"bad duration", `watch: debounce: "soon"`},
		{"syntax error", `entry_point: `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "settings.cue")
			testutil.MustWriteFile(t, path, tt.content)

			_, _, err := loadFrom(t, LoadOptions{ConfigFilePath: path})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "load settings") {
				t.Errorf("expected load settings context, got: %v", err)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Cleanup(testutil.MustSetenv(t, "JSBUNDLE_ENTRY_POINT", "web"))
	t.Cleanup(testutil.MustSetenv(t, "JSBUNDLE_UI_VERBOSE", "true"))
	t.Cleanup(testutil.MustSetenv(t, "JSBUNDLE_WATCH_DEBOUNCE", "2s"))

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `entry_point: "src"`)

	cfg, _, err := loadFrom(t, LoadOptions{ConfigDirPath: dir, WorkDir: t.TempDir()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EntryPoint != "web" {
		t.Errorf("expected env to override file, got %q", cfg.EntryPoint)
	}
	if !cfg.UI.Verbose {
		t.Error("expected verbose from env")
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected 2s debounce, got %s", cfg.Watch.Debounce)
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Cleanup(testutil.MustSetenv(t, "JSBUNDLE_LOG_LEVEL", "loud"))

	_, _, err := loadFrom(t, LoadOptions{ConfigDirPath: t.TempDir(), WorkDir: t.TempDir()})
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Fatalf("expected ErrInvalidLogLevel, got %v", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProvider().Load(ctx, LoadOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.EntryPoint = "assets"
	cfg.Concurrency = 8
	cfg.Discovery.Patterns = []string{"config/*.cue", "**/jsbundle.yaml"}
	cfg.UI.Color = ColorSchemeNone
	cfg.Watch.Debounce = 1500 * time.Millisecond

	path := filepath.Join(t.TempDir(), "config.cue")
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		t.Fatal(err)
	}

	got, _, err := loadFrom(t, LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("generated CUE did not load: %v", err)
	}
	if diff := cmp.Diff(cfg, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "settings")
	path, err := CreateDefaultConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("unexpected path %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("settings file not written: %v", err)
	}

	// A second call keeps the existing file.
	testutil.MustWriteFile(t, path, `entry_point: "custom"`)
	if _, err := CreateDefaultConfig(dir); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `entry_point: "custom"` {
		t.Errorf("existing settings file was overwritten: %s", data)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME applies to Linux and other Unix systems")
	}
	xdg := t.TempDir()
	t.Cleanup(testutil.SetConfigHome(t, xdg))

	dir, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(xdg, AppName) {
		t.Errorf("expected %q, got %q", filepath.Join(xdg, AppName), dir)
	}
}
