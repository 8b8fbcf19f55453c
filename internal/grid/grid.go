// Package grid defines the data-grid collaborator the editor drives, together
// with an in-memory implementation.
//
// A grid owns row storage, selection, cell-edit tracking and its own undo/redo
// history. Rows are identified by a stable key assigned by the grid when the
// row is created; keys survive undo/redo so callers can match rows by value.
package grid

import (
	"errors"

	"github.com/JonMunkholm/sitegrid/internal/core"
)

var (
	// ErrRowNotFound is returned when a row key is not present in the grid.
	ErrRowNotFound = errors.New("row not found")
	// ErrReadOnly is returned when a cell of a read-only column is edited.
	ErrReadOnly = errors.New("column is read-only")
)

// Row is one record displayed by the grid.
type Row interface {
	// Key returns the grid-assigned identity of the row.
	Key() string
	// Data returns a copy of the row's field values.
	Data() core.Row
	// ScrollTo brings the row into view.
	ScrollTo()
	// Delete removes the row from the grid, recording it in history.
	Delete() error
}

// Cell is an edited cell.
type Cell interface {
	Row() Row
	Field() string
}

// Column configures how the grid shows and edits one field.
type Column struct {
	Field    string
	Title    string
	Editable bool
	Hidden   bool
}

// Grid is the contract the editor needs from a data-grid widget.
type Grid interface {
	// AddRow appends a row built from data and optionally scrolls to it.
	AddRow(data core.Row, scrollIntoView bool) (Row, error)
	SelectedRows() []Row
	Rows() []Row
	Data() []core.Row
	// SetData replaces every row and drops edit tracking.
	SetData(data []core.Row) error
	EditedCells() []Cell
	HistoryUndoSize() int
	HistoryRedoSize() int
	Undo() bool
	Redo() bool
	ClearHistory()
	SetColumns(columns []Column) error
}
