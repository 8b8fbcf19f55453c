package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/JonMunkholm/sitegrid/internal/core"
	"github.com/JonMunkholm/sitegrid/internal/grid"
	"github.com/JonMunkholm/sitegrid/internal/ui"
)

var (
	// ErrEditModeOff is returned by mutating operations outside edit mode.
	ErrEditModeOff = errors.New("not in edit mode")
	// ErrUnknownTable is returned for a table id with no attached grid.
	ErrUnknownTable = errors.New("unknown table")
	// ErrInvalidTable is returned when a save is attempted on an invalid table.
	ErrInvalidTable = errors.New("illegal submit, missing name or url")
	// ErrNothingToSave is returned when a save finds no changes.
	ErrNothingToSave = errors.New("nothing to save")
	// ErrSaveInProgress is returned by saves and edit operations on a table
	// whose previous save has not finished reloading.
	ErrSaveInProgress = errors.New("save in progress")
)

// API is the subset of the table API the editor consumes.
type API interface {
	Update(ctx context.Context, table string, row core.Row) (core.Status, error)
	Insert(ctx context.Context, table string, row core.Row) (core.Status, error)
	Delete(ctx context.Context, table, id string) (core.Status, error)
	FetchData(ctx context.Context, table string) ([]core.Row, error)
}

// UI is the page the editor updates.
type UI interface {
	SetDisabled(id string, disabled bool)
	SetEditorOnlyVisible(visible bool)
	SetToggleLabel(label string)
}

// Editor is the edit controller for a set of tables.
// All methods are safe for concurrent use.
type Editor struct {
	api         API
	ui          UI
	columns     ColumnBuilder
	validateURL func(string) bool
	logger      *slog.Logger
	maxInFlight int

	mu       sync.Mutex
	editMode bool
	grids    map[string]grid.Grid
	store    *Store

	inFlight atomic.Int64
}

// Option configures an Editor.
type Option func(*Editor)

// WithColumns sets the column builder used when edit mode changes.
func WithColumns(cb ColumnBuilder) Option {
	return func(e *Editor) { e.columns = cb }
}

// WithURLValidator replaces ValidateURL.
func WithURLValidator(fn func(string) bool) Option {
	return func(e *Editor) { e.validateURL = fn }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithMaxInFlight caps concurrent save requests. Zero means no cap.
func WithMaxInFlight(n int) Option {
	return func(e *Editor) { e.maxInFlight = n }
}

// New creates an Editor with edit mode off.
func New(api API, page UI, opts ...Option) *Editor {
	e := &Editor{
		api:         api,
		ui:          page,
		columns:     RegistryColumns{},
		validateURL: ValidateURL,
		logger:      slog.Default(),
		grids:       make(map[string]grid.Grid),
		store:       NewStore(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Attach registers the grid that displays a table.
func (e *Editor) Attach(tableID string, g grid.Grid) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.grids[tableID] = g
	e.store.Table(tableID)
}

// Tables returns the attached table ids, sorted.
func (e *Editor) Tables() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tableIDs()
}

// Load fetches a table from the server into its grid and makes that data the
// baseline for discarding edits.
func (e *Editor) Load(ctx context.Context, tableID string) error {
	e.mu.Lock()
	_, ok := e.grids[tableID]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, tableID)
	}

	rows, err := e.api.FetchData(ctx, tableID)
	if err != nil {
		e.log(tableID).Error("failed to load table", "error", err)
		return fmt.Errorf("load %s: %w", tableID, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	g, st, err := e.table(tableID)
	if err != nil {
		return err
	}
	if err := e.setData(g, st, rows); err != nil {
		return fmt.Errorf("load %s: %w", tableID, err)
	}
	st.ClearEdits()
	e.store.SetEdited(tableID, false)

	e.log(tableID).Info("table loaded", "rows", len(rows))
	return nil
}

// EditMode reports whether edit mode is on.
func (e *Editor) EditMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editMode
}

// ToggleEditMode flips edit mode, shows or hides the editor-only controls,
// updates the toggle label and rebuilds every table's columns.
// It returns the new mode.
func (e *Editor) ToggleEditMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.logger.Info("switching edit mode", "from", e.editMode, "to", !e.editMode)
	e.editMode = !e.editMode

	e.ui.SetEditorOnlyVisible(e.editMode)
	e.ui.SetToggleLabel(ui.ToggleLabel(e.editMode))

	for _, id := range e.tableIDs() {
		if err := e.grids[id].SetColumns(e.columns.Columns(id, e.editMode)); err != nil {
			e.log(id).Error("failed to set columns", "error", err)
		}
	}
	return e.editMode
}

// TablesGenerated resets the edit state of every table when edit mode is on.
// Call it after the grids have been (re)built.
func (e *Editor) TablesGenerated() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.editMode {
		return
	}
	for _, id := range e.tableIDs() {
		e.reset(id, e.grids[id])
	}
}

// EditedTables returns the ids of tables with unsaved cell edits.
func (e *Editor) EditedTables() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.EditedTables()
}

// NewRowKeys returns the keys of rows added since the last load.
func (e *Editor) NewRowKeys(tableID string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var keys []string
	for _, r := range e.store.Table(tableID).NewRows() {
		keys = append(keys, r.Key())
	}
	return keys
}

// DeletedRows returns the snapshots of rows pending deletion.
func (e *Editor) DeletedRows(tableID string) []DeletedRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Table(tableID).Deleted()
}

// InFlight returns the number of save requests that have not settled.
func (e *Editor) InFlight() int {
	return int(e.inFlight.Load())
}

// table looks up the grid and state of a table. Callers hold e.mu.
func (e *Editor) table(tableID string) (grid.Grid, *TableState, error) {
	g, ok := e.grids[tableID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownTable, tableID)
	}
	return g, e.store.Table(tableID), nil
}

// editable checks edit mode, looks up the table and refuses tables that are
// being saved. Callers hold e.mu.
func (e *Editor) editable(tableID string) (grid.Grid, *TableState, error) {
	if !e.editMode {
		e.log(tableID).Error("you are not in edit mode")
		return nil, nil, ErrEditModeOff
	}
	g, st, err := e.table(tableID)
	if err != nil {
		return nil, nil, err
	}
	if st.Saving() {
		e.log(tableID).Error("save in progress, wait for the reload")
		return nil, nil, ErrSaveInProgress
	}
	return g, st, nil
}

// setData loads server rows into the grid and the snapshot. Callers hold e.mu.
func (e *Editor) setData(g grid.Grid, st *TableState, rows []core.Row) error {
	gridRows := make([]core.Row, len(rows))
	for i, r := range rows {
		gridRows[i] = toGridRow(r)
	}
	if err := g.SetData(gridRows); err != nil {
		return err
	}
	st.SetRaw(gridRows)
	return nil
}

func (e *Editor) tableIDs() []string {
	ids := make([]string, 0, len(e.grids))
	for id := range e.grids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (e *Editor) log(tableID string) *slog.Logger {
	return e.logger.With("table", tableID)
}
