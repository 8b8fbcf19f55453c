package editor

import (
	"testing"

	"github.com/JonMunkholm/sitegrid/internal/core"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		want  bool
	}{
		{"unchanged", NameField, "Alpha", true},
		{"empty name", NameField, "", false},
		{"nil name", NameField, nil, false},
		{"no addresses", AddressesField, []string{}, false},
		{"bad address", AddressesField, []string{"https://ok.example", "nope"}, false},
		{"wire form addresses", AddressesField, "https://a.example, https://b.example", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			key := f.rowKey(t, 1)
			if err := f.grid.SetCell(key, tt.field, tt.value); err != nil {
				t.Fatalf("SetCell error = %v", err)
			}

			if got := f.editor.IsValid(testTable); got != tt.want {
				t.Errorf("IsValid = %v, want %v", got, tt.want)
			}
			if !tt.want && f.grid.ScrolledTo() != key {
				t.Errorf("ScrolledTo = %q, want invalid row %q", f.grid.ScrolledTo(), key)
			}
		})
	}
}

func TestIsValid_CustomValidator(t *testing.T) {
	f := newFixture(t, WithURLValidator(func(string) bool { return false }))

	if f.editor.IsValid(testTable) {
		t.Error("IsValid = true with a validator rejecting every url")
	}
}

func TestIsValid_UnknownTable(t *testing.T) {
	f := newFixture(t)

	if f.editor.IsValid("missing") {
		t.Error("IsValid(missing) = true, want false")
	}
}

func TestIsEmpty(t *testing.T) {
	for _, v := range []any{nil, "", []string{}, []any{}} {
		if !isEmpty(v) {
			t.Errorf("isEmpty(%#v) = false, want true", v)
		}
	}
	for _, v := range []any{"x", []string{"x"}, 0, core.Row{}} {
		if isEmpty(v) {
			t.Errorf("isEmpty(%#v) = true, want false", v)
		}
	}
}
