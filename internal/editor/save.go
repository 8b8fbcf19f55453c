package editor

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/sitegrid/internal/api"
	"github.com/JonMunkholm/sitegrid/internal/core"
	"github.com/JonMunkholm/sitegrid/internal/grid"
)

// RequestOutcome is the result of one request dispatched by Save. Body holds
// the raw response when the server answered with an unknown status.
type RequestOutcome struct {
	Verb   api.Verb
	RowID  string
	Status core.Status
	Body   string
	Err    error
}

// OK reports whether the server applied the change.
func (o RequestOutcome) OK() bool {
	return o.Err == nil && o.Status.Success()
}

// SaveResult lists the outcome of every request of a save, in dispatch order:
// updates, then inserts, then deletes.
type SaveResult struct {
	Table    string
	Outcomes []RequestOutcome
}

// Succeeded counts the requests the server applied.
func (r *SaveResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed returns the outcomes the server did not apply.
func (r *SaveResult) Failed() []RequestOutcome {
	var out []RequestOutcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// saveRequest is one pending mutation.
type saveRequest struct {
	verb api.Verb
	id   string
	row  core.Row
}

// Save sends every change of a table to the server: edited persisted rows as
// updates, edited new rows as inserts and pending deletions as deletes. All
// requests run concurrently. Once every one of them has settled the table is
// reloaded and its edit state reset, even if some requests failed.
//
// While a save runs the table is locked: its columns are read-only, a second
// Save and the edit operations return ErrSaveInProgress until the reload.
//
// Per-request failures are reported in the result, not as an error.
func (e *Editor) Save(ctx context.Context, tableID string) (*SaveResult, error) {
	reqs, err := e.pendingRequests(tableID)
	if err != nil {
		return nil, err
	}

	log := e.log(tableID)
	log.Info("saving table", "requests", len(reqs))

	result := &SaveResult{Table: tableID, Outcomes: make([]RequestOutcome, len(reqs))}

	var g errgroup.Group
	if e.maxInFlight > 0 {
		g.SetLimit(e.maxInFlight)
	}
	for i, req := range reqs {
		e.inFlight.Add(1)
		g.Go(func() error {
			defer e.inFlight.Add(-1)
			result.Outcomes[i] = e.send(ctx, tableID, req)
			return nil
		})
	}
	g.Wait()

	log.Info("save finished, reloading saved data",
		"succeeded", result.Succeeded(),
		"failed", len(result.Failed()),
	)

	if err := e.reloadAfterSave(ctx, tableID); err != nil {
		return result, err
	}
	return result, nil
}

// pendingRequests validates the table, collects its changes and marks the
// table as saving.
func (e *Editor) pendingRequests(tableID string) ([]saveRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, st, err := e.editable(tableID)
	if err != nil {
		return nil, err
	}

	log := e.log(tableID)
	if !e.isValid(tableID, g) {
		log.Error("illegal submit, missing name or url")
		return nil, ErrInvalidTable
	}

	updates, inserts, deletes := collect(g, st)

	log.Debug("collected changes",
		"updates", len(updates),
		"inserts", len(inserts),
		"deletes", len(deletes),
	)

	if len(updates) == 0 && len(inserts) == 0 && len(deletes) == 0 {
		log.Error("abort, there is nothing to send")
		return nil, ErrNothingToSave
	}

	st.SetSaving(true)
	if err := g.SetColumns(e.columns.Columns(tableID, false)); err != nil {
		log.Error("failed to lock columns", "error", err)
	}

	reqs := make([]saveRequest, 0, len(updates)+len(inserts)+len(deletes))
	reqs = append(reqs, updates...)
	reqs = append(reqs, inserts...)
	return append(reqs, deletes...), nil
}

// PendingChanges counts the requests a save would send.
type PendingChanges struct {
	Updates int
	Inserts int
	Deletes int
}

// Pending counts the changes of a table without sending them. New rows with
// no edited cell are not counted; Save does not send them either.
func (e *Editor) Pending(tableID string) (PendingChanges, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, st, err := e.table(tableID)
	if err != nil {
		return PendingChanges{}, err
	}
	updates, inserts, deletes := collect(g, st)
	return PendingChanges{Updates: len(updates), Inserts: len(inserts), Deletes: len(deletes)}, nil
}

// collect turns the edited rows and pending deletions into requests, one per
// row. Callers hold e.mu.
func collect(g grid.Grid, st *TableState) (updates, inserts, deletes []saveRequest) {
	seen := make(map[string]bool)
	for _, c := range g.EditedCells() {
		row := c.Row()
		if seen[row.Key()] {
			continue
		}
		seen[row.Key()] = true

		data := toWireRow(row.Data())
		if st.IsNew(row.Key()) {
			inserts = append(inserts, saveRequest{verb: api.VerbInsert, row: data})
			continue
		}
		id, _ := rowID(data)
		updates = append(updates, saveRequest{verb: api.VerbUpdate, id: id, row: data})
	}
	for _, d := range st.Deleted() {
		id, ok := rowID(d.Data)
		if !ok {
			continue
		}
		deletes = append(deletes, saveRequest{verb: api.VerbDelete, id: id})
	}
	return updates, inserts, deletes
}

// send performs one request and logs its outcome.
func (e *Editor) send(ctx context.Context, tableID string, req saveRequest) RequestOutcome {
	out := RequestOutcome{Verb: req.verb, RowID: req.id}
	switch req.verb {
	case api.VerbUpdate:
		out.Status, out.Err = e.api.Update(ctx, tableID, req.row)
	case api.VerbInsert:
		out.Status, out.Err = e.api.Insert(ctx, tableID, req.row)
	case api.VerbDelete:
		out.Status, out.Err = e.api.Delete(ctx, tableID, req.id)
	}
	var unexpected *api.UnexpectedResponseError
	if errors.As(out.Err, &unexpected) {
		out.Body = unexpected.Body
	}
	e.logOutcome(tableID, out)
	return out
}

func (e *Editor) logOutcome(tableID string, o RequestOutcome) {
	log := e.log(tableID).With("verb", string(o.Verb))
	if o.RowID != "" {
		log = log.With("id", o.RowID)
	}

	var httpErr *api.HTTPError
	switch {
	case errors.As(o.Err, &httpErr):
		log.Error("api call failed", "status_code", httpErr.StatusCode)
	case o.Body != "" || (o.Err == nil && o.Status == core.StatusUnknown):
		log.Error("unknown api response", "body", o.Body)
	case o.Err != nil:
		log.Error("api call failed", "error", o.Err)
	default:
		level := slog.LevelInfo
		if !o.Status.Success() {
			level = slog.LevelError
		}
		log.Log(context.Background(), level, "api response", "status", o.Status.String())
	}
}
