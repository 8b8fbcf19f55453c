package editor

import (
	"github.com/JonMunkholm/sitegrid/internal/core"
	"github.com/JonMunkholm/sitegrid/internal/grid"
)

// ColumnBuilder derives a table's grid columns for the current edit mode.
type ColumnBuilder interface {
	Columns(tableID string, editMode bool) []grid.Column
}

// RegistryColumns builds columns from the core table registry.
// Every column but the id is editable in edit mode; all are read-only otherwise.
type RegistryColumns struct{}

func (RegistryColumns) Columns(tableID string, editMode bool) []grid.Column {
	meta, ok := core.Columns(tableID)
	if !ok {
		return nil
	}
	return columnsFromMeta(meta, editMode)
}

// MetaColumns builds columns from column metadata fetched from the API.
type MetaColumns map[string][]core.ColumnMeta

func (m MetaColumns) Columns(tableID string, editMode bool) []grid.Column {
	return columnsFromMeta(m[tableID], editMode)
}

func columnsFromMeta(meta []core.ColumnMeta, editMode bool) []grid.Column {
	cols := make([]grid.Column, len(meta))
	for i, c := range meta {
		cols[i] = grid.Column{
			Field:    c.Field,
			Title:    c.Title,
			Editable: editMode && c.Field != core.IDField,
			Hidden:   c.Hidden,
		}
	}
	return cols
}
