package editor

import (
	"sort"

	"github.com/JonMunkholm/sitegrid/internal/core"
	"github.com/JonMunkholm/sitegrid/internal/grid"
)

// DeletedRow is a value snapshot of a row removed from the grid.
type DeletedRow struct {
	Key  string
	Data core.Row
}

// TableState is the edit state of one table since its last load.
type TableState struct {
	raw     []core.Row
	newRows []grid.Row
	deleted []DeletedRow
	saving  bool
}

// Raw returns a copy of the last data loaded from the server.
func (t *TableState) Raw() []core.Row {
	out := make([]core.Row, len(t.raw))
	for i, r := range t.raw {
		out[i] = r.Clone()
	}
	return out
}

// SetRaw replaces the server snapshot.
func (t *TableState) SetRaw(rows []core.Row) {
	t.raw = make([]core.Row, len(rows))
	for i, r := range rows {
		t.raw[i] = r.Clone()
	}
}

// AddNew registers a row created client-side.
func (t *TableState) AddNew(row grid.Row) {
	if !t.IsNew(row.Key()) {
		t.newRows = append(t.newRows, row)
	}
}

// IsNew reports whether the row key belongs to a client-side row.
func (t *TableState) IsNew(key string) bool {
	for _, r := range t.newRows {
		if r.Key() == key {
			return true
		}
	}
	return false
}

// RemoveNew forgets a client-side row.
func (t *TableState) RemoveNew(key string) bool {
	for i, r := range t.newRows {
		if r.Key() == key {
			t.newRows = append(t.newRows[:i], t.newRows[i+1:]...)
			return true
		}
	}
	return false
}

// NewRows returns the registered client-side rows.
func (t *TableState) NewRows() []grid.Row {
	return append([]grid.Row(nil), t.newRows...)
}

// AddDeleted stores a snapshot unless one with the same key exists.
func (t *TableState) AddDeleted(key string, data core.Row) bool {
	if t.HasDeleted(key) {
		return false
	}
	t.deleted = append(t.deleted, DeletedRow{Key: key, Data: data.Clone()})
	return true
}

// HasDeleted reports whether a snapshot exists for key.
func (t *TableState) HasDeleted(key string) bool {
	for _, d := range t.deleted {
		if d.Key == key {
			return true
		}
	}
	return false
}

// RemoveDeleted drops the snapshot for key.
func (t *TableState) RemoveDeleted(key string) bool {
	for i, d := range t.deleted {
		if d.Key == key {
			t.deleted = append(t.deleted[:i], t.deleted[i+1:]...)
			return true
		}
	}
	return false
}

// Deleted returns copies of the pending deletions.
func (t *TableState) Deleted() []DeletedRow {
	out := make([]DeletedRow, len(t.deleted))
	for i, d := range t.deleted {
		out[i] = DeletedRow{Key: d.Key, Data: d.Data.Clone()}
	}
	return out
}

// ClearEdits forgets new rows and pending deletions.
func (t *TableState) ClearEdits() {
	t.newRows = nil
	t.deleted = nil
}

// Saving reports whether a save of the table has requests in flight.
func (t *TableState) Saving() bool { return t.saving }

func (t *TableState) SetSaving(saving bool) { t.saving = saving }

// Store holds the edit state of every table plus the set of tables with
// unsaved cell edits. It is not safe for concurrent use; the Editor guards it.
type Store struct {
	tables map[string]*TableState
	edited map[string]bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		tables: make(map[string]*TableState),
		edited: make(map[string]bool),
	}
}

// Table returns the state of a table, creating it on first use.
func (s *Store) Table(id string) *TableState {
	st, ok := s.tables[id]
	if !ok {
		st = &TableState{}
		s.tables[id] = st
	}
	return st
}

// SetEdited adds or removes a table from the edited set.
func (s *Store) SetEdited(id string, edited bool) {
	if edited {
		s.edited[id] = true
	} else {
		delete(s.edited, id)
	}
}

// IsEdited reports whether a table has unsaved cell edits.
func (s *Store) IsEdited(id string) bool {
	return s.edited[id]
}

// EditedTables returns the ids of tables with unsaved cell edits, sorted.
func (s *Store) EditedTables() []string {
	out := make([]string, 0, len(s.edited))
	for id := range s.edited {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
