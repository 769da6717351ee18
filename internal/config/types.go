// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
	// ColorSchemeNone disables styled output.
	ColorSchemeNone ColorScheme = "none"

	// LogLevelDebug logs everything, including per-layer resolution progress.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings and errors only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"

	// DefaultEntryPoint is the directory, relative to the project root, that
	// holds sources and outputs.
	DefaultEntryPoint = "scripts"
	// DefaultDebounce is the quiet period before watch mode re-plans.
	DefaultDebounce = 500 * time.Millisecond
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidPattern is returned when a discovery pattern is not a valid glob.
	ErrInvalidPattern = errors.New("invalid discovery pattern")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogLevel is the minimum severity written to the log.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidPatternError is returned for a malformed doublestar pattern.
	InvalidPatternError struct {
		Field   string
		Pattern string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// the individual field errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the tool settings.
	Config struct {
		// EntryPoint is used when a document does not declare its own.
		EntryPoint string `json:"entry_point" mapstructure:"entry_point"`
		// Concurrency bounds parallel source existence checks; 0 means GOMAXPROCS.
		Concurrency int `json:"concurrency" mapstructure:"concurrency"`
		// LogLevel sets the minimum log severity.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// Discovery configures how config documents are located.
		Discovery DiscoveryConfig `json:"discovery" mapstructure:"discovery"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Watch configures plan --watch.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// DiscoveryConfig lists doublestar patterns, relative to the project root.
	DiscoveryConfig struct {
		Patterns []string `json:"patterns" mapstructure:"patterns"`
		Ignore   []string `json:"ignore" mapstructure:"ignore"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables verbose error output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Color sets the color scheme
		Color ColorScheme `json:"color" mapstructure:"color"`
	}

	// WatchConfig configures watch mode.
	WatchConfig struct {
		// Debounce is the quiet period after the last file event.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
	}
)

// DefaultConfig returns the default settings.
func DefaultConfig() *Config {
	return &Config{
		EntryPoint:  DefaultEntryPoint,
		Concurrency: 0,
		LogLevel:    LogLevelInfo,
		Discovery: DiscoveryConfig{
			Patterns: []string{"**/jsbundle.{cue,hcl,toml,yaml,yml,xml}"},
			Ignore:   []string{},
		},
		UI: UIConfig{
			Verbose: false,
			Color:   ColorSchemeAuto,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
		},
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight, ColorSchemeNone:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// GlamourStyle maps the scheme to a glamour standard style name.
func (c ColorScheme) GlamourStyle() string {
	switch c {
	case ColorSchemeDark, ColorSchemeLight:
		return string(c)
	case ColorSchemeNone:
		return "notty"
	default:
		return "auto"
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light, none)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("%s: invalid pattern %q", e.Field, e.Pattern)
}

// Unwrap returns ErrInvalidPattern for errors.Is() compatibility.
func (e *InvalidPatternError) Unwrap() error { return ErrInvalidPattern }

// IsValid returns whether every discovery pattern is a valid doublestar glob.
func (c DiscoveryConfig) IsValid() (bool, []error) {
	var errs []error
	for _, p := range c.Patterns {
		if strings.TrimSpace(p) == "" || !doublestar.ValidatePattern(p) {
			errs = append(errs, &InvalidPatternError{Field: "discovery.patterns", Pattern: p})
		}
	}
	for _, p := range c.Ignore {
		if strings.TrimSpace(p) == "" || !doublestar.ValidatePattern(p) {
			errs = append(errs, &InvalidPatternError{Field: "discovery.ignore", Pattern: p})
		}
	}
	return len(errs) == 0, errs
}

// IsValid returns whether the Config has valid fields.
// CUE already constrains values loaded from a settings file; this also
// covers environment overrides, which bypass the schema.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.EntryPoint) == "" {
		errs = append(errs, errors.New("entry_point: must be non-empty"))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency: must be >= 0, got %d", c.Concurrency))
	}
	if valid, fieldErrs := c.LogLevel.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Discovery.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.Color.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce: must be >= 0, got %s", c.Watch.Debounce))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
