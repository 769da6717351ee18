// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"slices"
	"testing"
)

func TestAliasTable_FirstRegistrationWins(t *testing.T) {
	t.Parallel()

	tbl := NewAliasTable()
	if !tbl.Register("jquery", "vendor/jquery-3.7") {
		t.Fatal("first Register() should report true")
	}
	if tbl.Register("jquery", "vendor/jquery-1.12") {
		t.Error("duplicate Register() should report false")
	}
	if got := tbl.Resolve("jquery"); got != "vendor/jquery-3.7" {
		t.Errorf("Resolve(jquery) = %q, want vendor/jquery-3.7", got)
	}
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tbl.Len())
	}
}

func TestAliasTable_Resolve(t *testing.T) {
	t.Parallel()

	tbl := NewAliasTable()
	tbl.Register("a", "b")
	tbl.Register("b", "c")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "unknown name passes through", in: "app/main", want: "app/main"},
		{name: "registered name substitutes", in: "b", want: "c"},
		{name: "substitution is one level deep", in: "a", want: "b"},
		{name: "substitute itself is not a key", in: "c", want: "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tbl.Resolve(tt.in); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAliasTable_KeysKeepRegistrationOrder(t *testing.T) {
	t.Parallel()

	tbl := NewAliasTable()
	for _, k := range []string{"zeta", "alpha", "mid", "alpha"} {
		tbl.Register(k, k+"-sub")
	}
	want := []string{"zeta", "alpha", "mid"}
	if got := tbl.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	if got := tbl.Resolve("alpha"); got != "alpha-sub" {
		t.Errorf("Resolve(alpha) = %q, want first registration", got)
	}
	if tbl.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tbl.Len())
	}
}

func TestAliasTable_RegisterAfterFreezePanics(t *testing.T) {
	t.Parallel()

	tbl := NewAliasTable()
	tbl.Register("a", "b")
	tbl.Freeze()

	defer func() {
		if recover() == nil {
			t.Error("Register() after Freeze() should panic")
		}
	}()
	tbl.Register("c", "d")
}
