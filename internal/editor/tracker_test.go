package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/sitegrid/internal/core"
	"github.com/JonMunkholm/sitegrid/internal/grid"
	"github.com/JonMunkholm/sitegrid/internal/ui"
)

func TestEditModeGate(t *testing.T) {
	g := grid.NewMemory()
	e := New(newFakeAPI(serverRows()...), ui.NewPage(testTable), WithColumns(MetaColumns{}))
	e.Attach(testTable, g)
	ctx := context.Background()

	ops := map[string]func() error{
		"AddRow":           func() error { return e.AddRow(ctx, testTable) },
		"MarkRowsDeleted":  func() error { return e.MarkRowsDeleted(testTable) },
		"SelectionChanged": func() error { return e.SelectionChanged(testTable) },
		"RecomputeButtonStates": func() error {
			_, err := e.RecomputeButtonStates(testTable)
			return err
		},
		"Undo": func() error { return e.Undo(testTable) },
		"Redo": func() error { return e.Redo(testTable) },
		"Save": func() error {
			_, err := e.Save(ctx, testTable)
			return err
		},
	}

	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrEditModeOff) {
			t.Errorf("%s error = %v, want ErrEditModeOff", name, err)
		}
	}

	if err := e.Reset(testTable); err != nil {
		t.Errorf("Reset error = %v, want nil outside edit mode", err)
	}
	if err := e.Discard(testTable); err != nil {
		t.Errorf("Discard error = %v, want nil outside edit mode", err)
	}
}

func TestUnknownTable(t *testing.T) {
	f := newFixture(t)

	if err := f.editor.Undo("missing"); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("Undo error = %v, want ErrUnknownTable", err)
	}
	if err := f.editor.Load(context.Background(), "missing"); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("Load error = %v, want ErrUnknownTable", err)
	}
}

func TestLoadConvertsAddresses(t *testing.T) {
	f := newFixture(t)

	want := []core.Row{
		{"id": int64(1), NameField: "Alpha", AddressesField: []string{"https://alpha.example", "https://alpha.example/mirror"}},
		{"id": int64(2), NameField: "Beta", AddressesField: []string{"https://beta.example"}},
		{"id": int64(3), NameField: "Gamma", AddressesField: []string{"https://gamma.example"}},
	}
	if diff := cmp.Diff(want, f.grid.Data()); diff != "" {
		t.Errorf("grid data mismatch (-want +got):\n%s", diff)
	}
}

func TestAddRow(t *testing.T) {
	f := newFixture(t)

	if err := f.editor.AddRow(context.Background(), testTable); err != nil {
		t.Fatalf("AddRow error = %v", err)
	}

	keys := f.editor.NewRowKeys(testTable)
	if len(keys) != 1 {
		t.Fatalf("NewRowKeys = %v, want one key", keys)
	}
	if _, ok := f.grid.Row(keys[0]); !ok {
		t.Error("new row is not in the grid")
	}
	if got := f.grid.ScrolledTo(); got != keys[0] {
		t.Errorf("ScrolledTo = %q, want %q", got, keys[0])
	}
	if !f.disabled(t, ui.Undo) {
		t.Error("AddRow recomputed button states")
	}
}

func TestAddRow_GridRejects(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")
	f.grid.RejectAdds(boom)

	if err := f.editor.AddRow(context.Background(), testTable); !errors.Is(err, boom) {
		t.Errorf("AddRow error = %v, want %v", err, boom)
	}
	if keys := f.editor.NewRowKeys(testTable); len(keys) != 0 {
		t.Errorf("NewRowKeys = %v, want none", keys)
	}
}

func TestSelectionChanged(t *testing.T) {
	f := newFixture(t)

	f.grid.Select(f.rowKey(t, 0))
	if err := f.editor.SelectionChanged(testTable); err != nil {
		t.Fatalf("SelectionChanged error = %v", err)
	}
	if f.disabled(t, ui.Delete) {
		t.Error("delete disabled with a selection")
	}

	f.grid.Select()
	f.editor.SelectionChanged(testTable)
	if !f.disabled(t, ui.Delete) {
		t.Error("delete enabled without a selection")
	}
}

func TestMarkRowsDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.editor.AddRow(ctx, testTable); err != nil {
		t.Fatalf("AddRow error = %v", err)
	}
	newKey := f.editor.NewRowKeys(testTable)[0]
	first, second := f.rowKey(t, 0), f.rowKey(t, 1)

	f.grid.Select(first, second, newKey)
	f.editor.SelectionChanged(testTable)
	if err := f.editor.MarkRowsDeleted(testTable); err != nil {
		t.Fatalf("MarkRowsDeleted error = %v", err)
	}

	deleted := f.editor.DeletedRows(testTable)
	if len(deleted) != 2 {
		t.Fatalf("DeletedRows = %d, want 2", len(deleted))
	}
	if deleted[0].Key != first || deleted[1].Key != second {
		t.Errorf("DeletedRows keys = %s, %s; want %s, %s", deleted[0].Key, deleted[1].Key, first, second)
	}
	if got := deleted[1].Data[NameField]; got != "Beta" {
		t.Errorf("snapshot siteName = %v, want Beta", got)
	}

	if got := len(f.grid.Rows()); got != 1 {
		t.Errorf("grid rows = %d, want 1", got)
	}
	if got := len(f.editor.NewRowKeys(testTable)); got != 1 {
		t.Errorf("NewRowKeys = %d, want the new row to stay registered", got)
	}
	if !f.disabled(t, ui.Delete) {
		t.Error("delete still enabled after deleting")
	}
	if f.disabled(t, ui.Discard) || f.disabled(t, ui.Save) || f.disabled(t, ui.Undo) {
		t.Error("discard, save and undo should be enabled with pending deletions")
	}
}

func TestUndoRedoReconcileDeletions(t *testing.T) {
	f := newFixture(t)
	key := f.rowKey(t, 1)

	f.grid.Select(key)
	f.editor.MarkRowsDeleted(testTable)
	if got := len(f.editor.DeletedRows(testTable)); got != 1 {
		t.Fatalf("DeletedRows = %d, want 1", got)
	}

	if err := f.editor.Undo(testTable); err != nil {
		t.Fatalf("Undo error = %v", err)
	}
	if got := len(f.editor.DeletedRows(testTable)); got != 0 {
		t.Errorf("after Undo DeletedRows = %d, want 0", got)
	}
	if !f.disabled(t, ui.Undo) || !f.disabled(t, ui.Discard) {
		t.Error("undo and discard should be disabled with nothing pending")
	}
	if f.disabled(t, ui.Redo) {
		t.Error("redo disabled after Undo")
	}

	if err := f.editor.Redo(testTable); err != nil {
		t.Fatalf("Redo error = %v", err)
	}
	deleted := f.editor.DeletedRows(testTable)
	if len(deleted) != 1 || deleted[0].Key != key {
		t.Errorf("after Redo DeletedRows = %+v, want row %s", deleted, key)
	}
	if !f.disabled(t, ui.Redo) {
		t.Error("redo enabled with empty redo history")
	}
}

func TestRecomputeButtonStates(t *testing.T) {
	f := newFixture(t)
	key := f.rowKey(t, 0)

	f.grid.SetCell(key, NameField, "Alpha 2")
	got, err := f.editor.RecomputeButtonStates(testTable)
	if err != nil {
		t.Fatalf("RecomputeButtonStates error = %v", err)
	}
	want := ButtonStates{RedoDisabled: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("states after edit mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{testTable}, f.editor.EditedTables()); diff != "" {
		t.Errorf("EditedTables mismatch (-want +got):\n%s", diff)
	}

	f.editor.Undo(testTable)
	got, _ = f.editor.RecomputeButtonStates(testTable)
	want = ButtonStates{UndoDisabled: true, DiscardDisabled: true, SaveDisabled: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("states after undo mismatch (-want +got):\n%s", diff)
	}
	if tables := f.editor.EditedTables(); len(tables) != 0 {
		t.Errorf("EditedTables = %v, want none", tables)
	}
}

func TestRecomputeButtonStates_InvalidRowDisablesSave(t *testing.T) {
	f := newFixture(t)
	key := f.rowKey(t, 2)

	f.grid.SetCell(key, AddressesField, []string{"not a url"})
	got, _ := f.editor.RecomputeButtonStates(testTable)

	if !got.SaveDisabled {
		t.Error("save enabled with an invalid row")
	}
	if got.DiscardDisabled {
		t.Error("discard disabled with an edited cell")
	}
	if f.grid.ScrolledTo() != key {
		t.Errorf("ScrolledTo = %q, want %q", f.grid.ScrolledTo(), key)
	}
}

func TestRecomputeButtonStates_NewRowOnly(t *testing.T) {
	f := newFixture(t)
	f.editor.AddRow(context.Background(), testTable)

	got, _ := f.editor.RecomputeButtonStates(testTable)
	want := ButtonStates{RedoDisabled: true, SaveDisabled: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscard(t *testing.T) {
	f := newFixture(t)
	before := f.grid.Data()

	f.grid.SetCell(f.rowKey(t, 0), NameField, "changed")
	f.editor.AddRow(context.Background(), testTable)
	f.grid.Select(f.rowKey(t, 1))
	f.editor.MarkRowsDeleted(testTable)

	if err := f.editor.Discard(testTable); err != nil {
		t.Fatalf("Discard error = %v", err)
	}

	if diff := cmp.Diff(before, f.grid.Data()); diff != "" {
		t.Errorf("grid data mismatch (-want +got):\n%s", diff)
	}
	if n := len(f.editor.NewRowKeys(testTable)); n != 0 {
		t.Errorf("NewRowKeys = %d, want 0", n)
	}
	if n := len(f.editor.DeletedRows(testTable)); n != 0 {
		t.Errorf("DeletedRows = %d, want 0", n)
	}
	if tables := f.editor.EditedTables(); len(tables) != 0 {
		t.Errorf("EditedTables = %v, want none", tables)
	}
	for _, b := range []ui.Button{ui.Undo, ui.Redo, ui.Discard, ui.Save} {
		if !f.disabled(t, b) {
			t.Errorf("%s enabled after Discard", b)
		}
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t)

	f.grid.SetCell(f.rowKey(t, 0), NameField, "changed")
	f.editor.RecomputeButtonStates(testTable)
	if f.disabled(t, ui.Undo) || f.disabled(t, ui.Save) {
		t.Fatal("undo and save should be enabled after an edit")
	}

	if err := f.editor.Reset(testTable); err != nil {
		t.Fatalf("Reset error = %v", err)
	}
	for _, b := range []ui.Button{ui.Undo, ui.Redo, ui.Discard, ui.Save} {
		if !f.disabled(t, b) {
			t.Errorf("%s enabled after Reset", b)
		}
	}
	if f.grid.HistoryUndoSize() != 0 {
		t.Errorf("HistoryUndoSize = %d, want 0", f.grid.HistoryUndoSize())
	}
}

func TestToggleEditMode(t *testing.T) {
	page := ui.NewPage(testTable)
	g := grid.NewMemory()
	cols := MetaColumns{testTable: {{Field: NameField, Title: "Name"}, {Field: "id", Title: "ID", Hidden: true}}}
	e := New(newFakeAPI(), page, WithColumns(cols))
	e.Attach(testTable, g)
	initial := page.Elements()

	if !e.ToggleEditMode() {
		t.Fatal("ToggleEditMode = false, want true")
	}
	toggle, _ := page.Element(ui.EditToggleID)
	if toggle.Label != "Disable Edit" {
		t.Errorf("toggle label = %q, want Disable Edit", toggle.Label)
	}
	add, _ := page.Element(ui.ButtonID(ui.Add, testTable))
	if add.Hidden {
		t.Error("editor-only controls still hidden in edit mode")
	}
	wantCols := []grid.Column{
		{Field: NameField, Title: "Name", Editable: true},
		{Field: "id", Title: "ID", Hidden: true},
	}
	if diff := cmp.Diff(wantCols, g.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	if e.ToggleEditMode() {
		t.Fatal("second ToggleEditMode = true, want false")
	}
	if diff := cmp.Diff(initial, page.Elements()); diff != "" {
		t.Errorf("page after two toggles mismatch (-want +got):\n%s", diff)
	}
	for _, c := range g.Columns() {
		if c.Editable {
			t.Errorf("column %s editable outside edit mode", c.Field)
		}
	}
}

func TestTablesGenerated(t *testing.T) {
	page := ui.NewPage(testTable)
	e := New(newFakeAPI(), page, WithColumns(MetaColumns{}))
	e.Attach(testTable, grid.NewMemory())
	undo := ui.ButtonID(ui.Undo, testTable)

	page.SetDisabled(undo, false)
	e.TablesGenerated()
	if el, _ := page.Element(undo); el.Disabled {
		t.Error("TablesGenerated reset a table outside edit mode")
	}

	e.ToggleEditMode()
	e.TablesGenerated()
	if el, _ := page.Element(undo); !el.Disabled {
		t.Error("TablesGenerated did not reset the table in edit mode")
	}
}
