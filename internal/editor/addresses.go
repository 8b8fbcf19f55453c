package editor

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/JonMunkholm/sitegrid/internal/core"
)

const (
	// NameField must be non-empty on every row.
	NameField = "siteName"
	// AddressesField holds the site URLs: a list in the grid, a joined string on the wire.
	AddressesField = "siteAddresses"
)

// AddressSeparator joins addresses in the wire form.
const AddressSeparator = ", "

// JoinAddresses converts an address list to its wire form.
func JoinAddresses(addrs []string) string {
	return strings.Join(addrs, AddressSeparator)
}

// SplitAddresses converts the wire form to an address list.
// The empty string yields an empty list.
func SplitAddresses(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, AddressSeparator)
}

// AddressList normalizes a grid or wire value into an address list.
func AddressList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, len(val))
		for i, a := range val {
			out[i] = fmt.Sprint(a)
		}
		return out
	case string:
		return SplitAddresses(val)
	default:
		return []string{fmt.Sprint(val)}
	}
}

// toGridRow returns a copy of a server row with addresses in list form.
func toGridRow(row core.Row) core.Row {
	out := row.Clone()
	if v, ok := out[AddressesField]; ok && v != nil {
		out[AddressesField] = AddressList(v)
	}
	return out
}

// toWireRow returns a copy of a grid row with addresses in joined form.
func toWireRow(row core.Row) core.Row {
	out := row.Clone()
	if v, ok := out[AddressesField]; ok && v != nil {
		out[AddressesField] = JoinAddresses(AddressList(v))
	}
	return out
}

// ValidateURL reports whether raw is an absolute http or https URL with a host.
func ValidateURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
