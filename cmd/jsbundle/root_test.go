// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsbundle/jsbundle/internal/config"
	"github.com/jsbundle/jsbundle/internal/issue"
	"github.com/jsbundle/jsbundle/pkg/types"

	"github.com/google/go-cmp/cmp"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{"nil", nil, types.ExitSuccess},
		{"plain error", errors.New("boom"), types.ExitFailure},
		{"usage", usageError(errors.New("bad flag")), types.ExitUsage},
		{"wrapped exit error", fmt.Errorf("outer: %w", &ExitError{Code: 3}), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	err := issue.NewErrorContext().
		WithOperation("open project").
		WithResource("/missing").
		WithSuggestion("Pass an existing directory with --project").
		WithIssue(issue.ProjectRootNotFoundId).
		Wrap(errors.New("no such directory")).
		BuildError()

	t.Run("concise", func(t *testing.T) {
		t.Parallel()
		app := NewApp(Dependencies{})
		var buf bytes.Buffer
		app.renderError(&buf, err)

		out := buf.String()
		if !strings.Contains(out, "failed to open project: /missing: no such directory") {
			t.Errorf("missing error line:\n%s", out)
		}
		if !strings.Contains(out, "Pass an existing directory") {
			t.Errorf("missing suggestion:\n%s", out)
		}
		if strings.Contains(out, "Project root not found") {
			t.Errorf("catalog entry rendered without --verbose:\n%s", out)
		}
	})

	t.Run("verbose renders catalog", func(t *testing.T) {
		t.Parallel()
		app := NewApp(Dependencies{})
		app.settings.UI.Verbose = true
		app.settings.UI.Color = config.ColorSchemeNone
		var buf bytes.Buffer
		app.renderError(&buf, err)

		out := buf.String()
		if !strings.Contains(out, "Error chain:") {
			t.Errorf("missing error chain:\n%s", out)
		}
		if !strings.Contains(out, "Project root not found") {
			t.Errorf("missing catalog entry:\n%s", out)
		}
	})

	t.Run("usage hint", func(t *testing.T) {
		t.Parallel()
		app := NewApp(Dependencies{})
		var buf bytes.Buffer
		app.renderError(&buf, usageError(errors.New("unknown flag: --bogus")))
		if !strings.Contains(buf.String(), "jsbundle --help") {
			t.Errorf("missing usage hint:\n%s", buf.String())
		}
	})
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"text", "JSON", " yaml ", "yml", "cue"} {
		if _, err := parseOutputFormat(in); err != nil {
			t.Errorf("parseOutputFormat(%q) error: %v", in, err)
		}
	}
	_, err := parseOutputFormat("xml")
	if !errors.Is(err, ErrInvalidOutputFormat) {
		t.Errorf("expected ErrInvalidOutputFormat, got %v", err)
	}
}

func TestWatchPatterns(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	inside := filepath.Join(root, "conf", "a.yaml")
	outside := filepath.Join(t.TempDir(), "b.yaml")

	t.Run("documents", func(t *testing.T) {
		t.Parallel()
		if diff := cmp.Diff([]string{"custom/*.cue"}, watchDocuments(root, nil, []string{"custom/*.cue"})); diff != "" {
			t.Errorf("discovery patterns (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"conf/a.yaml"}, watchDocuments(root, []string{inside, outside}, nil)); diff != "" {
			t.Errorf("explicit documents (-want +got):\n%s", diff)
		}
		got := watchDocuments(root, []string{outside}, nil)
		if len(got) != 1 || got[0] == "" {
			t.Errorf("expected fallback pattern, got %v", got)
		}
	})

	t.Run("ignores", func(t *testing.T) {
		t.Parallel()
		got := watchIgnores(root, []string{"vendor/**"}, filepath.Join(root, "out", "plan.json"))
		if diff := cmp.Diff([]string{"vendor/**", "out/plan.json"}, got); diff != "" {
			t.Errorf("ignores (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"vendor/**"}, watchIgnores(root, []string{"vendor/**"}, outside)); diff != "" {
			t.Errorf("outside output (-want +got):\n%s", diff)
		}
	})
}
