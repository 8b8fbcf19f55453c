package editor

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/sitegrid/internal/core"
)

func TestAddressesRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		addrs []string
		wire  string
	}{
		{"empty", []string{}, ""},
		{"single", []string{"https://a.example"}, "https://a.example"},
		{"several", []string{"https://a.example", "http://b.example/x"}, "https://a.example, http://b.example/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinAddresses(tt.addrs); got != tt.wire {
				t.Errorf("JoinAddresses = %q, want %q", got, tt.wire)
			}
			if diff := cmp.Diff(tt.addrs, SplitAddresses(tt.wire)); diff != "" {
				t.Errorf("SplitAddresses mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddressList(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, nil},
		{"strings", []string{"https://a.example"}, []string{"https://a.example"}},
		{"decoded json", []any{"https://a.example", "https://b.example"}, []string{"https://a.example", "https://b.example"}},
		{"wire form", "https://a.example, https://b.example", []string{"https://a.example", "https://b.example"}},
		{"empty wire form", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, AddressList(tt.in)); diff != "" {
				t.Errorf("AddressList mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWireConversion(t *testing.T) {
	server := core.Row{"id": int64(4), NameField: "Site", AddressesField: "https://a.example, https://b.example"}

	gridRow := toGridRow(server)
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, gridRow[AddressesField]); diff != "" {
		t.Errorf("grid addresses mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(server, toWireRow(gridRow)); diff != "" {
		t.Errorf("wire row mismatch (-want +got):\n%s", diff)
	}
	if _, ok := server[AddressesField].(string); !ok {
		t.Error("toGridRow modified its input")
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com/path?q=1", true},
		{"example.com", false},
		{"ftp://example.com", false},
		{"https://", false},
		{"", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		if got := ValidateURL(tt.in); got != tt.want {
			t.Errorf("ValidateURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
