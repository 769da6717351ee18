// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "discover config documents"},
			expected: "failed to discover config documents",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "parse config document", Resource: "./jsbundle.cue"},
			expected: "failed to parse config document: ./jsbundle.cue",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "resolve bundle includes", Cause: errors.New("cycle")},
			expected: "failed to resolve bundle includes: cycle",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "parse config document",
				Resource:  "./jsbundle.cue",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to parse config document: ./jsbundle.cue: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIsThroughChain(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("bundle not found")
	cause := fmt.Errorf("bundle %q: %w", "ui", sentinel)
	wrapped := NewErrorContext().WithOperation("resolve bundle includes").Wrap(cause).BuildError()

	if !errors.Is(wrapped, sentinel) {
		t.Error("errors.Is should find the sentinel through the cause")
	}
	if (&ActionableError{Operation: "x"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("open jsbundle.cue: permission denied")
	err := &ActionableError{
		Operation:   "parse config document",
		Resource:    "./jsbundle.cue",
		Suggestions: []string{"Check file permissions", "Run 'jsbundle init'"},
		Cause:       fmt.Errorf("read: %w", inner),
	}

	plain := err.Format(false)
	for _, want := range []string{"failed to parse config document", "• Check file permissions", "• Run 'jsbundle init'"} {
		if !strings.Contains(plain, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "Error chain") {
		t.Errorf("Format(false) should not include the chain:\n%s", plain)
	}

	verbose := err.Format(true)
	for _, want := range []string{"Error chain:", "1. read: open jsbundle.cue", "2. open jsbundle.cue: permission denied"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, verbose)
		}
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	t.Run("operation required", func(t *testing.T) {
		t.Parallel()
		if NewErrorContext().WithResource("x").Build() != nil {
			t.Error("Build() without operation should return nil")
		}
		if NewErrorContext().BuildError() != nil {
			t.Error("BuildError() without operation should return a nil interface")
		}
	})

	t.Run("all fields", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("boom")
		ae := NewErrorContext().
			WithOperation("emit plan").
			WithResource("/proj").
			WithSuggestion("one").
			WithSuggestions("two", "three").
			WithIssue(DependencyCycleId).
			Wrap(cause).
			Build()

		if ae.Operation != "emit plan" || ae.Resource != "/proj" || ae.Cause != cause {
			t.Errorf("unexpected fields: %+v", ae)
		}
		if len(ae.Suggestions) != 3 || !ae.HasSuggestions() {
			t.Errorf("Suggestions = %v", ae.Suggestions)
		}
		if ae.Issue() != Get(DependencyCycleId) {
			t.Error("Issue() should return the linked catalog entry")
		}
	})

	t.Run("built errors do not share suggestions", func(t *testing.T) {
		t.Parallel()
		ctx := NewErrorContext().WithOperation("x").WithSuggestion("a")
		first := ctx.Build()
		ctx.WithSuggestion("b")
		if len(first.Suggestions) != 1 {
			t.Errorf("first error changed after builder reuse: %v", first.Suggestions)
		}
	})
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("nil error should stay nil")
	}
	ae := WrapWithContext(errors.New("e"), "op", "res")
	if ae.Operation != "op" || ae.Resource != "res" {
		t.Errorf("got %+v", ae)
	}
	if ae.Issue() != nil {
		t.Error("Issue() should be nil without an issue id")
	}
}

func TestAs(t *testing.T) {
	t.Parallel()

	ae := &ActionableError{Operation: "plan"}
	if got, ok := As(fmt.Errorf("outer: %w", ae)); !ok || got != ae {
		t.Errorf("As() = %v, %v", got, ok)
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Error("As() should report false for plain errors")
	}
}
