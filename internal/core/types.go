package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUnknownTable is returned when a table key is not registered.
var ErrUnknownTable = errors.New("unknown table")

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// FieldType represents how a field is stored and edited.
type FieldType int

const (
	FieldText FieldType = iota
	FieldBool
	FieldNumeric
	FieldEnum
	FieldAddressList // list of URLs, ", "-joined on the wire, JSON-encoded at rest
)

// FieldSpec describes a single column of a site table.
type FieldSpec struct {
	Name       string    // Row field name as used on the wire: "siteName"
	DBColumn   string    // Database column name (if different from Name, otherwise derived)
	Label      string    // Column header
	Type       FieldType // Storage/editor type
	Required   bool      // Must be non-empty for a row to be saved
	Hidden     bool      // Hidden by default in the grid
	EnumValues []string  // Valid values for FieldEnum type
}

// TableInfo contains display information about a table.
type TableInfo struct {
	Key     string   `json:"id"`    // Unique identifier: "englishMangaAggregators"
	Tab     string   `json:"tab"`   // Tab the table is listed under: "manga"
	Title   string   `json:"title"` // Display name: "Aggregators"
	Columns []string `json:"-"`     // Field names in display order
}

// TableDefinition contains everything needed to serve a table.
type TableDefinition struct {
	Info       TableInfo
	FieldSpecs []FieldSpec
}

// Spec returns the FieldSpec for a field name.
func (t TableDefinition) Spec(name string) (FieldSpec, bool) {
	for _, spec := range t.FieldSpecs {
		if spec.Name == name {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// Row is one record of a table, keyed by field name.
// Server rows always carry IDField.
type Row map[string]any

// IDField is the field that identifies persisted rows.
const IDField = "id"

// Clone returns a shallow copy of the row. Slice values are copied so the
// clone can be mutated without touching the original.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		switch val := v.(type) {
		case []string:
			out[k] = append([]string(nil), val...)
		case []any:
			out[k] = append([]any(nil), val...)
		default:
			out[k] = v
		}
	}
	return out
}

// ColumnMeta is the JSON description of a column served to the grid.
type ColumnMeta struct {
	Field    string   `json:"field"`
	Title    string   `json:"title"`
	Type     string   `json:"type"`
	Required bool     `json:"required,omitempty"`
	Hidden   bool     `json:"hidden,omitempty"`
	Values   []string `json:"values,omitempty"`
}

// fieldTypeName returns a human-readable name for a field type.
func fieldTypeName(ft FieldType) string {
	switch ft {
	case FieldText:
		return "text"
	case FieldBool:
		return "bool"
	case FieldNumeric:
		return "numeric"
	case FieldEnum:
		return "enum"
	case FieldAddressList:
		return "addresses"
	default:
		return "text"
	}
}
