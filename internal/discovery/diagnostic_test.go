// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"testing"
)

func TestSeverity_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity Severity
		want     bool
		wantErr  bool
	}{
		{SeverityWarning, true, false},
		{SeverityError, true, false},
		{"", false, true},
		{"invalid", false, true},
		{"WARNING", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.severity.IsValid()
			if isValid != tt.want {
				t.Errorf("Severity(%q).IsValid() = %v, want %v", tt.severity, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("Severity(%q).IsValid() returned no errors, want error", tt.severity)
				}
				if !errors.Is(errs[0], ErrInvalidSeverity) {
					t.Errorf("error should wrap ErrInvalidSeverity, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("Severity(%q).IsValid() returned unexpected errors: %v", tt.severity, errs)
			}
		})
	}
}

func TestDiagnosticCode_IsValid(t *testing.T) {
	t.Parallel()

	for _, code := range []DiagnosticCode{CodeDirectoryUnreadable, CodeUnsupportedFormat, CodeDocumentConflict} {
		if ok, errs := code.IsValid(); !ok || len(errs) > 0 {
			t.Errorf("DiagnosticCode(%q).IsValid() = %v, %v; want true", code, ok, errs)
		}
	}

	for _, code := range []DiagnosticCode{"", "invalid", "DIRECTORY_UNREADABLE"} {
		ok, errs := code.IsValid()
		if ok {
			t.Errorf("DiagnosticCode(%q).IsValid() = true, want false", code)
			continue
		}
		if len(errs) == 0 || !errors.Is(errs[0], ErrInvalidDiagnosticCode) {
			t.Errorf("DiagnosticCode(%q) error should wrap ErrInvalidDiagnosticCode, got: %v", code, errs)
		}
	}
}

func TestNewDiagnosticWithCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("permission denied")
	d := NewDiagnosticWithCause(SeverityWarning, CodeDirectoryUnreadable, "skipped", "/proj/locked", cause)

	if d.Severity != SeverityWarning || d.Code != CodeDirectoryUnreadable {
		t.Errorf("unexpected severity/code: %q/%q", d.Severity, d.Code)
	}
	if d.Path != "/proj/locked" {
		t.Errorf("Path = %q, want /proj/locked", d.Path)
	}
	if !errors.Is(d.Cause, cause) {
		t.Errorf("Cause = %v, want %v", d.Cause, cause)
	}
}

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{
			name: "without path",
			d:    NewDiagnostic(SeverityError, CodeDocumentConflict, "bundle \"core\" redefined"),
			want: `error [document_conflict] bundle "core" redefined`,
		},
		{
			name: "with path",
			d:    NewDiagnosticWithPath(SeverityWarning, CodeUnsupportedFormat, "no extension", "/proj/jsbundle"),
			want: "warning [unsupported_format] /proj/jsbundle: no extension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.d.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
