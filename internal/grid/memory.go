package grid

import (
	"fmt"
	"sort"
	"sync"

	"github.com/JonMunkholm/sitegrid/internal/core"
	"github.com/google/uuid"
)

type actionKind int

const (
	actionCellEdit actionKind = iota
	actionRowAdd
	actionRowDelete
)

// action is one undoable history entry.
type action struct {
	kind      actionKind
	row       *memRow
	index     int
	field     string
	oldValue  any
	newValue  any
	wasEdited bool
}

// Memory is an in-memory Grid. It is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	rows     []*memRow
	selected map[string]bool
	edited   map[string]map[string]bool // row key -> edited fields
	undo     []action
	redo     []action
	columns  []Column
	scrolled string
	addErr   error
}

var _ Grid = (*Memory)(nil)

// NewMemory creates an empty in-memory grid.
func NewMemory() *Memory {
	return &Memory{
		selected: make(map[string]bool),
		edited:   make(map[string]map[string]bool),
	}
}

type memRow struct {
	grid *Memory
	key  string
	data core.Row
}

func (r *memRow) Key() string { return r.key }

func (r *memRow) Data() core.Row {
	r.grid.mu.Lock()
	defer r.grid.mu.Unlock()
	return r.data.Clone()
}

func (r *memRow) ScrollTo() {
	r.grid.mu.Lock()
	r.grid.scrolled = r.key
	r.grid.mu.Unlock()
}

func (r *memRow) Delete() error {
	return r.grid.DeleteRow(r.key)
}

type memCell struct {
	row   *memRow
	field string
}

func (c memCell) Row() Row      { return c.row }
func (c memCell) Field() string { return c.field }

// RejectAdds makes every following AddRow fail with err. Pass nil to accept again.
func (g *Memory) RejectAdds(err error) {
	g.mu.Lock()
	g.addErr = err
	g.mu.Unlock()
}

// AddRow appends a row. The row is tracked in history but has no edited cells.
func (g *Memory) AddRow(data core.Row, scrollIntoView bool) (Row, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.addErr != nil {
		return nil, g.addErr
	}

	row := &memRow{grid: g, key: uuid.NewString(), data: data.Clone()}
	if row.data == nil {
		row.data = core.Row{}
	}
	g.rows = append(g.rows, row)
	g.record(action{kind: actionRowAdd, row: row, index: len(g.rows) - 1})

	if scrollIntoView {
		g.scrolled = row.key
	}
	return row, nil
}

// SetCell edits one field of a row and marks the cell edited. Fields with a
// configured column that is not editable are refused.
func (g *Memory) SetCell(key, field string, value any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.indexOf(key)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, key)
	}
	for _, c := range g.columns {
		if c.Field == field && !c.Editable {
			return fmt.Errorf("%w: %s", ErrReadOnly, field)
		}
	}
	row := g.rows[idx]

	g.record(action{
		kind:      actionCellEdit,
		row:       row,
		field:     field,
		oldValue:  row.data[field],
		newValue:  value,
		wasEdited: g.edited[key][field],
	})
	row.data[field] = value
	g.markEdited(key, field, true)
	return nil
}

// DeleteRow removes a row by key.
func (g *Memory) DeleteRow(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.indexOf(key)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, key)
	}
	row := g.rows[idx]
	g.removeAt(idx)
	delete(g.selected, key)
	g.record(action{kind: actionRowDelete, row: row, index: idx})
	return nil
}

// Select replaces the selection with the given row keys.
func (g *Memory) Select(keys ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.selected = make(map[string]bool, len(keys))
	for _, k := range keys {
		if g.indexOf(k) >= 0 {
			g.selected[k] = true
		}
	}
}

func (g *Memory) SelectedRows() []Row {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []Row
	for _, r := range g.rows {
		if g.selected[r.key] {
			out = append(out, r)
		}
	}
	return out
}

func (g *Memory) Rows() []Row {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Row, len(g.rows))
	for i, r := range g.rows {
		out[i] = r
	}
	return out
}

// Row returns the row with the given key.
func (g *Memory) Row(key string) (Row, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.indexOf(key)
	if idx < 0 {
		return nil, false
	}
	return g.rows[idx], true
}

func (g *Memory) Data() []core.Row {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]core.Row, len(g.rows))
	for i, r := range g.rows {
		out[i] = r.data.Clone()
	}
	return out
}

func (g *Memory) SetData(data []core.Row) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rows = make([]*memRow, len(data))
	for i, d := range data {
		row := &memRow{grid: g, key: uuid.NewString(), data: d.Clone()}
		if row.data == nil {
			row.data = core.Row{}
		}
		g.rows[i] = row
	}
	g.selected = make(map[string]bool)
	g.edited = make(map[string]map[string]bool)
	g.undo = nil
	g.redo = nil
	return nil
}

// EditedCells returns the edited cells of rows currently in the grid,
// in row order and then field order.
func (g *Memory) EditedCells() []Cell {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []Cell
	for _, r := range g.rows {
		fields := g.edited[r.key]
		if len(fields) == 0 {
			continue
		}
		names := make([]string, 0, len(fields))
		for f := range fields {
			names = append(names, f)
		}
		sort.Strings(names)
		for _, f := range names {
			out = append(out, memCell{row: r, field: f})
		}
	}
	return out
}

func (g *Memory) HistoryUndoSize() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.undo)
}

func (g *Memory) HistoryRedoSize() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.redo)
}

func (g *Memory) Undo() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.undo) == 0 {
		return false
	}
	a := g.undo[len(g.undo)-1]
	g.undo = g.undo[:len(g.undo)-1]

	switch a.kind {
	case actionCellEdit:
		a.row.data[a.field] = a.oldValue
		g.markEdited(a.row.key, a.field, a.wasEdited)
	case actionRowAdd:
		if idx := g.indexOf(a.row.key); idx >= 0 {
			g.removeAt(idx)
		}
	case actionRowDelete:
		g.insertAt(a.index, a.row)
	}

	g.redo = append(g.redo, a)
	return true
}

func (g *Memory) Redo() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.redo) == 0 {
		return false
	}
	a := g.redo[len(g.redo)-1]
	g.redo = g.redo[:len(g.redo)-1]

	switch a.kind {
	case actionCellEdit:
		a.row.data[a.field] = a.newValue
		g.markEdited(a.row.key, a.field, true)
	case actionRowAdd:
		g.insertAt(a.index, a.row)
	case actionRowDelete:
		if idx := g.indexOf(a.row.key); idx >= 0 {
			g.removeAt(idx)
			delete(g.selected, a.row.key)
		}
	}

	g.undo = append(g.undo, a)
	return true
}

func (g *Memory) ClearHistory() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.undo = nil
	g.redo = nil
}

func (g *Memory) SetColumns(columns []Column) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.columns = append([]Column(nil), columns...)
	return nil
}

// Columns returns the current column configuration.
func (g *Memory) Columns() []Column {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Column(nil), g.columns...)
}

// ScrolledTo returns the key of the row most recently scrolled into view.
func (g *Memory) ScrolledTo() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scrolled
}

// record pushes a new history entry. New edits invalidate the redo stack.
func (g *Memory) record(a action) {
	g.undo = append(g.undo, a)
	g.redo = nil
}

func (g *Memory) markEdited(key, field string, edited bool) {
	if !edited {
		if fields, ok := g.edited[key]; ok {
			delete(fields, field)
			if len(fields) == 0 {
				delete(g.edited, key)
			}
		}
		return
	}
	if g.edited[key] == nil {
		g.edited[key] = make(map[string]bool)
	}
	g.edited[key][field] = true
}

func (g *Memory) indexOf(key string) int {
	for i, r := range g.rows {
		if r.key == key {
			return i
		}
	}
	return -1
}

func (g *Memory) removeAt(idx int) {
	g.rows = append(g.rows[:idx], g.rows[idx+1:]...)
}

func (g *Memory) insertAt(idx int, row *memRow) {
	if idx < 0 || idx > len(g.rows) {
		idx = len(g.rows)
	}
	g.rows = append(g.rows, nil)
	copy(g.rows[idx+1:], g.rows[idx:])
	g.rows[idx] = row
}
