package editor

import (
	"context"
	"fmt"
	"strconv"

	"github.com/JonMunkholm/sitegrid/internal/core"
	"github.com/JonMunkholm/sitegrid/internal/grid"
	"github.com/JonMunkholm/sitegrid/internal/ui"
)

// ButtonStates holds the disabled flags of a table's history controls.
type ButtonStates struct {
	UndoDisabled    bool
	RedoDisabled    bool
	DiscardDisabled bool
	SaveDisabled    bool
}

// AddRow appends an empty row to the table, registers it as new and scrolls
// it into view. The context is accepted for grids that create rows remotely.
func (e *Editor) AddRow(ctx context.Context, tableID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, st, err := e.editable(tableID)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	log := e.log(tableID)
	log.Info("adding row")

	row, err := g.AddRow(core.Row{}, true)
	if err != nil {
		log.Error("failed to create new row", "error", err)
		return fmt.Errorf("add row to %s: %w", tableID, err)
	}

	st.AddNew(row)
	row.ScrollTo()
	return nil
}

// MarkRowsDeleted removes the selected rows from the grid. Persisted rows are
// kept as snapshots for deletion on save. Rows added since the last load have
// nothing to delete server-side; they stay registered as new so an undo brings
// them back as inserts. The delete control is disabled until the next selection.
func (e *Editor) MarkRowsDeleted(tableID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, st, err := e.editable(tableID)
	if err != nil {
		return err
	}

	log := e.log(tableID)
	selected := g.SelectedRows()
	log.Info("deleting selected rows", "count", len(selected))

	for _, r := range selected {
		if st.IsNew(r.Key()) {
			continue
		}
		data := r.Data()
		if _, ok := rowID(data); !ok {
			continue
		}
		st.AddDeleted(r.Key(), data)
	}

	for _, r := range selected {
		if err := r.Delete(); err != nil {
			log.Error("failed to delete row", "row", r.Key(), "error", err)
		}
	}

	e.ui.SetDisabled(ui.ButtonID(ui.Delete, tableID), true)
	e.recompute(tableID, g, st)
	return nil
}

// SelectionChanged enables the delete control iff any row is selected.
func (e *Editor) SelectionChanged(tableID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, _, err := e.editable(tableID)
	if err != nil {
		return err
	}
	e.ui.SetDisabled(ui.ButtonID(ui.Delete, tableID), len(g.SelectedRows()) == 0)
	return nil
}

// RecomputeButtonStates derives the history controls from the grid and the
// edit state, applies them to the page and returns them. It also keeps the
// edited-tables set current.
func (e *Editor) RecomputeButtonStates(tableID string) (ButtonStates, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, st, err := e.editable(tableID)
	if err != nil {
		return ButtonStates{}, err
	}
	return e.recompute(tableID, g, st), nil
}

// Undo reverts the grid's last change. Deleted rows that are back in the grid
// leave the pending deletions.
func (e *Editor) Undo(tableID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, st, err := e.editable(tableID)
	if err != nil {
		return err
	}

	e.log(tableID).Info("undo edit")
	g.Undo()

	for _, r := range g.Rows() {
		st.RemoveDeleted(r.Key())
	}

	e.recompute(tableID, g, st)
	return nil
}

// Redo reapplies the grid's last undone change. Persisted rows that it
// removes from the grid join the pending deletions.
func (e *Editor) Redo(tableID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, st, err := e.editable(tableID)
	if err != nil {
		return err
	}

	e.log(tableID).Info("redo edit")

	before := g.Rows()
	g.Redo()
	present := rowKeys(g.Rows())

	for _, r := range before {
		if present[r.Key()] || st.IsNew(r.Key()) {
			continue
		}
		data := r.Data()
		if _, ok := rowID(data); ok {
			st.AddDeleted(r.Key(), data)
		}
	}

	e.recompute(tableID, g, st)
	return nil
}

// Discard restores the last loaded data and resets the edit state. It is
// refused while the table is being saved.
func (e *Editor) Discard(tableID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, st, err := e.table(tableID)
	if err != nil {
		return err
	}
	if st.Saving() {
		e.log(tableID).Error("save in progress, nothing to discard")
		return ErrSaveInProgress
	}

	e.log(tableID).Info("discarding edits")
	if err := g.SetData(st.Raw()); err != nil {
		e.log(tableID).Error("failed to restore data", "error", err)
		return fmt.Errorf("discard %s: %w", tableID, err)
	}

	st.ClearEdits()
	e.store.SetEdited(tableID, false)
	e.reset(tableID, g)
	return nil
}

// Reset clears the grid history and disables undo, redo, discard and save
// regardless of any remaining edits.
func (e *Editor) Reset(tableID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, _, err := e.table(tableID)
	if err != nil {
		return err
	}
	e.reset(tableID, g)
	return nil
}

// reset is Reset with e.mu held.
func (e *Editor) reset(tableID string, g grid.Grid) {
	e.log(tableID).Info("resetting edit state")
	g.ClearHistory()
	for _, b := range []ui.Button{ui.Undo, ui.Redo, ui.Discard, ui.Save} {
		e.ui.SetDisabled(ui.ButtonID(b, tableID), true)
	}
}

// recompute is RecomputeButtonStates with e.mu held.
func (e *Editor) recompute(tableID string, g grid.Grid, st *TableState) ButtonStates {
	edited := len(g.EditedCells())
	deleted := len(st.Deleted())

	present := rowKeys(g.Rows())
	newRows := 0
	for _, r := range st.NewRows() {
		if present[r.Key()] {
			newRows++
		}
	}

	noChanges := edited == 0 && deleted == 0
	states := ButtonStates{
		UndoDisabled:    g.HistoryUndoSize() == 0 || (noChanges && newRows == 0),
		RedoDisabled:    g.HistoryRedoSize() == 0,
		DiscardDisabled: noChanges && newRows == 0,
		SaveDisabled:    !e.isValid(tableID, g) || noChanges,
	}

	e.ui.SetDisabled(ui.ButtonID(ui.Undo, tableID), states.UndoDisabled)
	e.ui.SetDisabled(ui.ButtonID(ui.Redo, tableID), states.RedoDisabled)
	e.ui.SetDisabled(ui.ButtonID(ui.Discard, tableID), states.DiscardDisabled)
	e.ui.SetDisabled(ui.ButtonID(ui.Save, tableID), states.SaveDisabled)

	e.store.SetEdited(tableID, edited > 0)
	return states
}

func rowKeys(rows []grid.Row) map[string]bool {
	keys := make(map[string]bool, len(rows))
	for _, r := range rows {
		keys[r.Key()] = true
	}
	return keys
}

// rowID returns the server id of a row in path form.
func rowID(data core.Row) (string, bool) {
	v, ok := data[core.IDField]
	if !ok || v == nil {
		return "", false
	}
	if id, ok := core.ParseRowID(v); ok {
		return strconv.FormatInt(id, 10), true
	}
	s := fmt.Sprint(v)
	return s, s != ""
}
