// SPDX-License-Identifier: MPL-2.0

// Package watch re-plans a project when its config documents or script
// sources change.
//
// A Watcher monitors every non-ignored directory under the project root and
// invokes a callback after a debounce period. Events within the debounce
// window are coalesced so the callback fires once with the full set of
// changes, each classified as a document or source change.
package watch

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the delay before firing the onChange callback after the
// last filesystem event. This allows rapid successive events (e.g., an editor
// writing then renaming a temp file) to coalesce into a single callback.
const defaultDebounce = 500 * time.Millisecond

const (
	// KindDocument marks a change to a config document.
	KindDocument Kind = iota + 1
	// KindSource marks a change to a script source file.
	KindSource
)

// defaultIgnores lists path patterns that are always excluded from watching,
// regardless of user-supplied ignore patterns. These cover VCS metadata,
// dependency caches, editor swap files, and OS metadata files that generate
// high-frequency noise.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/bower_components/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
var ErrInvalidWatchConfig = errors.New("invalid watch config")

type (
	// Kind classifies a changed path.
	Kind int

	// Change is one changed path, relative to BaseDir with forward slashes.
	Change struct {
		Path string
		Kind Kind
	}

	// Config holds the parameters for a Watcher.
	Config struct {
		// Documents are doublestar patterns (relative to BaseDir) selecting
		// config documents.
		Documents []string

		// Sources are doublestar patterns selecting script sources, typically
		// "<entry point>/**/*.js".
		Sources []string

		// Ignore are additional doublestar-compatible glob patterns for paths
		// that should never trigger callbacks, such as a plan output file
		// written inside the project. These are merged with the built-in
		// default ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// ClearScreen controls whether the terminal is cleared before each
		// callback invocation by writing ANSI escape sequences to Stdout.
		ClearScreen bool

		// BaseDir is the project root. An empty value defaults to the current
		// working directory.
		BaseDir string

		// OnChange is called after the debounce window closes with the
		// deduplicated changes sorted by path. A nil callback is a no-op.
		OnChange func(ctx context.Context, changes []Change) error

		// Stdout receives the clear-screen sequence. nil means os.Stdout.
		Stdout io.Writer

		// Logger receives watcher warnings. nil means slog.Default().
		Logger *slog.Logger
	}

	// InvalidWatchConfigError is returned by Config.Validate. It wraps
	// ErrInvalidWatchConfig and collects every field error.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}

	// Watcher monitors filesystem paths and fires a debounced callback when
	// matching files change. Run must be called exactly once; calling it a
	// second time returns an error.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		stdout   io.Writer
		log      *slog.Logger
		debounce time.Duration
		baseDir  string
		started  atomic.Bool
	}
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindSource:
		return "source"
	default:
		return "unknown"
	}
}

func (e *InvalidWatchConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid watch config: %d field error(s): %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// Validate checks that every pattern is a non-empty doublestar glob, that at
// least one document or source pattern is set, and that BaseDir is not
// whitespace-only.
func (c Config) Validate() error {
	var errs []error
	if len(c.Documents) == 0 && len(c.Sources) == 0 {
		errs = append(errs, errors.New("no document or source patterns"))
	}
	check := func(label string, patterns []string) {
		for _, pat := range patterns {
			if strings.TrimSpace(pat) == "" || !doublestar.ValidatePattern(pat) {
				errs = append(errs, fmt.Errorf("invalid %s pattern %q", label, pat))
			}
		}
	}
	check("document", c.Documents)
	check("source", c.Sources)
	check("ignore", c.Ignore)
	if c.BaseDir != "" && strings.TrimSpace(c.BaseDir) == "" {
		errs = append(errs, fmt.Errorf("base directory %q is whitespace-only", c.BaseDir))
	}
	if len(errs) > 0 {
		return &InvalidWatchConfigError{FieldErrors: errs}
	}
	return nil
}

// New creates a Watcher from the given Config. It resolves BaseDir to an
// absolute path, initialises the underlying fsnotify watcher, and registers
// all non-ignored directories under BaseDir for monitoring.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		stdout:   stdout,
		log:      logger.With("component", "watch"),
		debounce: debounce,
		baseDir:  absBase,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			w.log.Warn("close after init failure", "error", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on clean context
// cancellation and propagates any fatal watcher errors. Run must be
// called exactly once; a second call returns an error immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]Kind)
		timer   *time.Timer
		running atomic.Bool
	)

	// fire drains the pending set and invokes the OnChange callback. Only one
	// callback runs at a time; a fire that finds one in progress re-arms the
	// timer so the pending changes are picked up afterwards.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.log.Info("skipping re-plan, previous run still in progress")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changes := make([]Change, 0, len(pending))
		for path, kind := range pending {
			changes = append(changes, Change{Path: path, Kind: kind})
		}
		clear(pending)
		mu.Unlock()

		slices.SortFunc(changes, func(a, b Change) int { return cmp.Compare(a.Path, b.Path) })

		if w.cfg.ClearScreen {
			// ANSI escape: clear screen and move cursor to top-left.
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changes); err != nil {
				w.log.Error("re-plan failed", "error", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		localTimer := timer
		mu.Unlock()
		if localTimer != nil {
			localTimer.Stop()
		}
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.log.Warn("close fsnotify", "error", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}

			rel, err := filepath.Rel(w.baseDir, evt.Name)
			if err != nil {
				rel = evt.Name
			}
			rel = filepath.ToSlash(rel)

			// Auto-add newly created directories so recursive watches
			// extend to directories created after startup.
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			kind, ok := w.classify(rel)
			if !ok {
				continue
			}
			w.log.Debug("change", "path", rel, "kind", kind, "op", evt.Op.String())

			mu.Lock()
			pending[rel] = kind
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			// isFatalFsnotifyError is platform-specific (see watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.log.Warn("fsnotify error", "error", err)
		}
	}
}

// classify reports whether rel is a watched path and what kind it is.
// Document patterns take precedence over source patterns.
func (w *Watcher) classify(rel string) (Kind, bool) {
	if matchAny(w.ignores, rel) {
		return 0, false
	}
	if matchAny(w.cfg.Documents, rel) {
		return KindDocument, true
	}
	if matchAny(w.cfg.Sources, rel) {
		return KindSource, true
	}
	return 0, false
}

// addDirectories walks BaseDir and adds every non-ignored directory to the
// fsnotify watcher. Pattern filtering is applied when events arrive.
func (w *Watcher) addDirectories() error {
	walkErr := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			// Inaccessible directories are skipped rather than aborting the walk.
			w.log.Warn("skipping inaccessible path", "path", path, "error", walkDirErr)
			return nil //nolint:nilerr // intentional skip of inaccessible paths
		}
		if !d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(w.baseDir, path)
		if relErr != nil {
			return nil //nolint:nilerr // skip paths that cannot be made relative
		}

		if w.isIgnoredDir(rel) {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// maybeAddDir adds path to the fsnotify watcher if it is a directory and is
// not ignored.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil || w.isIgnoredDir(rel) {
		return
	}

	if addErr := w.fsw.Add(path); addErr != nil {
		w.log.Warn("add new directory", "path", path, "error", addErr)
	}
}

func (w *Watcher) isIgnoredDir(rel string) bool {
	normalized := filepath.ToSlash(rel)
	return matchAny(w.ignores, normalized) || matchAny(w.ignores, normalized+"/")
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, matchErr := doublestar.Match(pat, rel); matchErr == nil && matched {
			return true
		}
	}
	return false
}
