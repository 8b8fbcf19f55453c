package editor

import (
	"context"
	"sync"
	"testing"

	"github.com/JonMunkholm/sitegrid/internal/core"
	"github.com/JonMunkholm/sitegrid/internal/grid"
	"github.com/JonMunkholm/sitegrid/internal/ui"
)

const testTable = "sites"

// fakeAPI records every call. When gate is set, mutations report on started
// and then block until gate is closed.
type fakeAPI struct {
	mu      sync.Mutex
	data    map[string][]core.Row
	updates []core.Row
	inserts []core.Row
	deletes []string
	fetches int

	deleteErr error
	gate      chan struct{}
	started   chan struct{}
}

func newFakeAPI(rows ...core.Row) *fakeAPI {
	return &fakeAPI{data: map[string][]core.Row{testTable: rows}}
}

func (f *fakeAPI) wait() {
	if f.gate == nil {
		return
	}
	f.started <- struct{}{}
	<-f.gate
}

func (f *fakeAPI) Update(ctx context.Context, table string, row core.Row) (core.Status, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, row)
	return core.StatusUpdated, nil
}

func (f *fakeAPI) Insert(ctx context.Context, table string, row core.Row) (core.Status, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, row)
	return core.StatusInserted, nil
}

func (f *fakeAPI) Delete(ctx context.Context, table, id string) (core.Status, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	if f.deleteErr != nil {
		return core.StatusUnknown, f.deleteErr
	}
	return core.StatusDeleted, nil
}

func (f *fakeAPI) FetchData(ctx context.Context, table string) ([]core.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	rows, ok := f.data[table]
	if !ok {
		return nil, core.ErrUnknownTable
	}
	out := make([]core.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out, nil
}

func (f *fakeAPI) counts() (updates, inserts, deletes, fetches int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates), len(f.inserts), len(f.deletes), f.fetches
}

type fixture struct {
	editor *Editor
	grid   *grid.Memory
	page   *ui.Page
	api    *fakeAPI
}

func serverRows() []core.Row {
	return []core.Row{
		{"id": int64(1), NameField: "Alpha", AddressesField: "https://alpha.example, https://alpha.example/mirror"},
		{"id": int64(2), NameField: "Beta", AddressesField: "https://beta.example"},
		{"id": int64(3), NameField: "Gamma", AddressesField: "https://gamma.example"},
	}
}

// newFixture returns an editor with one loaded table, in edit mode.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		grid: grid.NewMemory(),
		page: ui.NewPage(testTable),
		api:  newFakeAPI(serverRows()...),
	}
	opts = append([]Option{WithColumns(MetaColumns{})}, opts...)
	f.editor = New(f.api, f.page, opts...)
	f.editor.Attach(testTable, f.grid)

	if err := f.editor.Load(context.Background(), testTable); err != nil {
		t.Fatalf("Load error = %v", err)
	}
	f.editor.ToggleEditMode()
	f.editor.TablesGenerated()
	return f
}

func (f *fixture) rowKey(t *testing.T, i int) string {
	t.Helper()
	rows := f.grid.Rows()
	if i >= len(rows) {
		t.Fatalf("row %d out of range (%d rows)", i, len(rows))
	}
	return rows[i].Key()
}

func (f *fixture) disabled(t *testing.T, b ui.Button) bool {
	t.Helper()
	el, ok := f.page.Element(ui.ButtonID(b, testTable))
	if !ok {
		t.Fatalf("no element for %s", b)
	}
	return el.Disabled
}
