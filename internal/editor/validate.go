package editor

import (
	"fmt"

	"github.com/JonMunkholm/sitegrid/internal/core"
	"github.com/JonMunkholm/sitegrid/internal/grid"
)

// IsValid reports whether every row of the table has a name and at least one
// address, all of them valid URLs. The first invalid row is scrolled into view.
func (e *Editor) IsValid(tableID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, _, err := e.table(tableID)
	if err != nil {
		e.log(tableID).Error("cannot validate table", "error", err)
		return false
	}
	return e.isValid(tableID, g)
}

// isValid is IsValid with e.mu held.
func (e *Editor) isValid(tableID string, g grid.Grid) bool {
	for _, r := range g.Rows() {
		if reason := e.invalidReason(r.Data()); reason != "" {
			e.log(tableID).Debug("invalid row", "row", r.Key(), "reason", reason)
			r.ScrollTo()
			return false
		}
	}
	return true
}

// invalidReason explains why a row cannot be saved, or returns "".
func (e *Editor) invalidReason(data core.Row) string {
	if isEmpty(data[NameField]) {
		return "missing " + NameField
	}
	addrs := AddressList(data[AddressesField])
	if len(addrs) == 0 {
		return "missing " + AddressesField
	}
	for _, a := range addrs {
		if !e.validateURL(a) {
			return fmt.Sprintf("invalid url %q", a)
		}
	}
	return ""
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	default:
		return false
	}
}
