// Package editor is the client-side edit controller for the site tables.
//
// An Editor drives one grid per table. While edit mode is on, users add,
// delete and edit rows; the editor tracks which rows are new, which were
// deleted and which carry edited cells relative to the last data loaded from
// the server, keeps the page controls (undo, redo, discard, save, delete) in
// step with that state, and on save turns it into insert, update and delete
// requests.
//
// # Row identity
//
// Rows are matched by the key the grid assigns them, never by reference or by
// comparing field values. Deleted rows are kept as value snapshots because the
// grid no longer holds them.
//
// # Saving
//
// Save validates the table, partitions edited rows into updates and inserts,
// and fires every request (deletes included) concurrently. It then waits for
// all of them to settle, reloads the table once, and resets the edit state.
// A failing request is logged and reported in the SaveResult; it does not
// stop the others and is not retried.
package editor
