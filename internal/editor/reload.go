package editor

import (
	"context"
	"fmt"
)

// reloadAfterSave refetches a table once its save has drained, then resets
// the edit state and unlocks the table. The reset happens even when the fetch
// fails so a table is never left holding changes that were already sent.
func (e *Editor) reloadAfterSave(ctx context.Context, tableID string) error {
	rows, fetchErr := e.api.FetchData(ctx, tableID)

	e.mu.Lock()
	defer e.mu.Unlock()

	g, st, err := e.table(tableID)
	if err != nil {
		return err
	}

	log := e.log(tableID)
	if fetchErr != nil {
		log.Error("failed to reload saved data", "error", fetchErr)
	} else if err := e.setData(g, st, rows); err != nil {
		log.Error("failed to set reloaded data", "error", err)
		fetchErr = err
	}

	e.reset(tableID, g)
	st.ClearEdits()
	e.store.SetEdited(tableID, false)

	st.SetSaving(false)
	if err := g.SetColumns(e.columns.Columns(tableID, e.editMode)); err != nil {
		log.Error("failed to unlock columns", "error", err)
	}

	if fetchErr != nil {
		return fmt.Errorf("reload %s: %w", tableID, fetchErr)
	}
	return nil
}
