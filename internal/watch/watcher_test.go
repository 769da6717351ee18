// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jsbundle/jsbundle/internal/testutil"

	"github.com/google/go-cmp/cmp"
)

var (
	testDocuments = []string{"**/jsbundle.{cue,yaml}"}
	testSources   = []string{"scripts/**/*.js"}
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newProjectDir creates a project with a scripts directory so that source
// writes land in an already-watched directory.
func newProjectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(dir, "scripts"), 0o755)
	return dir
}

func startWatcher(t *testing.T, cfg Config) (cancel func()) {
	t.Helper()
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ctx, cancelCtx := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	return func() {
		cancelCtx()
		if err := <-errCh; err != nil {
			t.Errorf("Run() error: %v", err)
		}
	}
}

// TestWatcherDebounce verifies that rapid events coalesce into one callback
// that classifies documents and sources.
func TestWatcherDebounce(t *testing.T) {
	t.Parallel()
	dir := newProjectDir(t)

	var (
		mu    sync.Mutex
		calls int
		got   []Change
	)
	done := make(chan struct{})

	stop := startWatcher(t, Config{
		BaseDir:   dir,
		Documents: testDocuments,
		Sources:   testSources,
		Debounce:  100 * time.Millisecond,
		Logger:    quietLogger(),
		OnChange: func(_ context.Context, changes []Change) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			got = append(got, changes...)
			if calls == 1 {
				close(done)
			}
			return nil
		},
	})

	for _, name := range []string{"scripts/b.js", "jsbundle.cue", "scripts/a.js", "notes.txt"} {
		testutil.MustWriteFile(t, filepath.Join(dir, filepath.FromSlash(name)), "x")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(200 * time.Millisecond)
	stop()

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("expected 1 debounced callback, got %d", calls)
	}
	want := []Change{
		{Path: "jsbundle.cue", Kind: KindDocument},
		{Path: "scripts/a.js", Kind: KindSource},
		{Path: "scripts/b.js", Kind: KindSource},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

// TestWatcherIgnorePatterns confirms that an ignored plan output does not
// trigger a re-plan.
func TestWatcherIgnorePatterns(t *testing.T) {
	t.Parallel()
	dir := newProjectDir(t)

	fired := make(chan []Change, 10)
	stop := startWatcher(t, Config{
		BaseDir:  dir,
		Sources:  []string{"**/*.js"},
		Ignore:   []string{"scripts/plan.js"},
		Debounce: 50 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, changes []Change) error {
			fired <- changes
			return nil
		},
	})
	defer stop()

	testutil.MustWriteFile(t, filepath.Join(dir, "scripts", "plan.js"), "ignored")
	time.Sleep(200 * time.Millisecond)
	testutil.MustWriteFile(t, filepath.Join(dir, "scripts", "app.js"), "watched")

	select {
	case changes := <-fired:
		want := []Change{{Path: "scripts/app.js", Kind: KindSource}}
		if diff := cmp.Diff(want, changes); diff != "" {
			t.Errorf("changes mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback on watched file")
	}
}

// TestWatcherNewDirectory verifies that directories created after startup
// are watched too.
func TestWatcherNewDirectory(t *testing.T) {
	t.Parallel()
	dir := newProjectDir(t)

	fired := make(chan []Change, 10)
	stop := startWatcher(t, Config{
		BaseDir:  dir,
		Sources:  testSources,
		Debounce: 50 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, changes []Change) error {
			fired <- changes
			return nil
		},
	})
	defer stop()

	testutil.MustMkdirAll(t, filepath.Join(dir, "scripts", "ui"), 0o755)
	time.Sleep(100 * time.Millisecond)
	testutil.MustWriteFile(t, filepath.Join(dir, "scripts", "ui", "button.js"), "x")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case changes := <-fired:
			for _, c := range changes {
				if c.Path == "scripts/ui/button.js" {
					return
				}
			}
		case <-deadline:
			t.Fatal("timed out waiting for change in new directory")
		}
	}
}

// TestWatcherContextCancel verifies that Run returns cleanly when its context
// is cancelled.
func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()
	w, err := New(Config{BaseDir: t.TempDir(), Sources: testSources, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() returned error on cancel: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}

func TestWatcherDoubleRunError(t *testing.T) {
	t.Parallel()
	w, err := New(Config{BaseDir: t.TempDir(), Sources: testSources, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	if err := w.Run(ctx); err == nil {
		t.Error("expected error from second Run call")
	}
	cancel()
	<-errCh
}

// TestWatcherSkipIfBusy verifies that callbacks never overlap when a re-plan
// outlasts the debounce period.
func TestWatcherSkipIfBusy(t *testing.T) {
	t.Parallel()
	dir := newProjectDir(t)

	var (
		mu        sync.Mutex
		calls     int
		inFlight  int
		maxFlight int
	)
	firstDone := make(chan struct{})

	stop := startWatcher(t, Config{
		BaseDir:  dir,
		Sources:  testSources,
		Debounce: 50 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, _ []Change) error {
			mu.Lock()
			calls++
			n := calls
			inFlight++
			maxFlight = max(maxFlight, inFlight)
			mu.Unlock()

			if n == 1 {
				time.Sleep(300 * time.Millisecond)
				close(firstDone)
			}

			mu.Lock()
			inFlight--
			mu.Unlock()
			return nil
		},
	})

	testutil.MustWriteFile(t, filepath.Join(dir, "scripts", "first.js"), "1")
	time.Sleep(100 * time.Millisecond)
	testutil.MustWriteFile(t, filepath.Join(dir, "scripts", "second.js"), "2")

	select {
	case <-firstDone:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first callback")
	}
	time.Sleep(300 * time.Millisecond)
	stop()

	mu.Lock()
	defer mu.Unlock()
	if maxFlight != 1 {
		t.Errorf("callbacks overlapped: max in flight %d", maxFlight)
	}
	if calls != 2 {
		t.Errorf("expected the deferred change to be replayed once, got %d calls", calls)
	}
}

// TestWatcherClearScreen verifies that ClearScreen writes the ANSI clear
// sequence before invoking the callback.
func TestWatcherClearScreen(t *testing.T) {
	t.Parallel()
	dir := newProjectDir(t)

	var (
		stdout bytes.Buffer
		mu     sync.Mutex
		once   sync.Once
	)
	done := make(chan struct{})
	stop := startWatcher(t, Config{
		BaseDir:     dir,
		Sources:     testSources,
		Debounce:    50 * time.Millisecond,
		ClearScreen: true,
		Stdout:      &lockedWriter{mu: &mu, w: &stdout},
		Logger:      quietLogger(),
		OnChange: func(_ context.Context, _ []Change) error {
			once.Do(func() { close(done) })
			return nil
		},
	})

	testutil.MustWriteFile(t, filepath.Join(dir, "scripts", "app.js"), "x")
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	stop()

	mu.Lock()
	defer mu.Unlock()
	if !strings.HasPrefix(stdout.String(), "\033[2J\033[H") {
		t.Errorf("expected clear-screen sequence, got %q", stdout.String())
	}
}

func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		ignored bool
	}{
		{".git/config", true},
		{"node_modules/react/index.js", true},
		{"scripts/bower_components/jquery/jquery.js", true},
		{"scripts/app.js.swp", true},
		{"scripts/app.js~", true},
		{".DS_Store", true},
		{"scripts/app.js", false},
		{"jsbundle.cue", false},
		{".gitignore", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := matchAny(DefaultIgnores(), tt.path); got != tt.ignored {
				t.Errorf("default ignore of %q = %v, want %v", tt.path, got, tt.ignored)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()
	if _, err := New(Config{BaseDir: t.TempDir()}); err == nil {
		t.Fatal("expected error for config without patterns")
	}
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

