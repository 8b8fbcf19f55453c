package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/sitegrid/internal/core"
	"github.com/JonMunkholm/sitegrid/internal/logging"
)

// maxRowBody caps the JSON body of a single row mutation.
const maxRowBody = 1 << 20

// rowMutation is Backend.Update or Backend.Insert.
type rowMutation func(ctx context.Context, table string, row core.Row) (core.Status, error)

// handleUpdate writes a posted row over the persisted row with the same id.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.mutateRow(w, r, s.backend.Update)
}

// handleInsert stores a posted row as a new row.
func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	s.mutateRow(w, r, s.backend.Insert)
}

// handleDelete removes the row with the id in the path.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	id := chi.URLParam(r, "id")

	ctx := withRequestMeta(r.Context(), r)
	status, err := s.backend.Delete(ctx, table, id)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.WithFields(ctx, "table", table, "id", id).Info("delete row", "status", status.String())
	writeStatus(w, status)
}

func (s *Server) mutateRow(w http.ResponseWriter, r *http.Request, mutate rowMutation) {
	table := chi.URLParam(r, "table")

	row, err := decodeRowBody(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if len(row) == 0 {
		writeStatus(w, core.StatusNoData)
		return
	}

	ctx := withRequestMeta(r.Context(), r)
	status, err := mutate(ctx, table, row)
	if errors.Is(err, core.ErrInvalidValue) {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.WithFields(ctx, "table", table).Info("mutate row", "path", r.URL.Path, "status", status.String())
	writeStatus(w, status)
}

// decodeRowBody reads a JSON object. An empty body or a JSON null yields a
// nil row.
func decodeRowBody(r *http.Request) (core.Row, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRowBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	var row core.Row
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidJSON, err)
	}
	return row, nil
}
