package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/sitegrid/internal/core"
)

// handleFetchTables lists the registered tables grouped by tab.
func (s *Server) handleFetchTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.backend.ListTabs())
}

// handleFetchTab lists the table keys of one tab.
func (s *Server) handleFetchTab(w http.ResponseWriter, r *http.Request) {
	keys, status := s.backend.TablesByTab(chi.URLParam(r, "tab"))
	if status != core.StatusUnknown {
		writeStatus(w, status)
		return
	}
	writeJSON(w, r, keys)
}

// handleFetchAllColumns returns the column metadata of every table, keyed by table.
func (s *Server) handleFetchAllColumns(w http.ResponseWriter, r *http.Request) {
	all := make(map[string][]core.ColumnMeta)
	for _, def := range core.All() {
		if cols, ok := core.Columns(def.Info.Key); ok {
			all[def.Info.Key] = cols
		}
	}
	writeJSON(w, r, all)
}

// handleFetchColumns returns the column metadata of a table.
func (s *Server) handleFetchColumns(w http.ResponseWriter, r *http.Request) {
	cols, ok := core.Columns(chi.URLParam(r, "table"))
	if !ok {
		writeStatus(w, core.StatusTableNotFound)
		return
	}
	writeJSON(w, r, cols)
}

// handleFetchData returns every row of a table.
func (s *Server) handleFetchData(w http.ResponseWriter, r *http.Request) {
	rows, err := s.backend.FetchData(r.Context(), chi.URLParam(r, "table"))
	if errors.Is(err, core.ErrUnknownTable) {
		writeStatus(w, core.StatusTableNotFound)
		return
	}
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []core.Row{}
	}
	writeJSON(w, r, rows)
}
