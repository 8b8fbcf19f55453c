package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Action names a row mutation in the audit log.
type Action string

const (
	ActionUpdate Action = "update"
	ActionInsert Action = "insert"
	ActionDelete Action = "delete"
)

// RecordChange writes an audit entry for a row mutation.
// before is nil for inserts, after is nil for deletes.
func (s *Service) RecordChange(ctx context.Context, action Action, tableKey string, before, after Row) {
	attrs := []any{
		"action", string(action),
		"table", tableKey,
	}
	if ip := GetIPAddressFromContext(ctx); ip != "" {
		attrs = append(attrs, "ip", ip)
	}
	if ua := GetUserAgentFromContext(ctx); ua != "" {
		attrs = append(attrs, "user_agent", ua)
	}
	if before != nil {
		attrs = append(attrs, "before", map[string]any(before))
	}
	if after != nil {
		attrs = append(attrs, "after", map[string]any(after))
	}
	slog.InfoContext(ctx, "audit: row changed", attrs...)
}

// getRowData fetches all column data for a row.
// Returns nil without error when the row does not exist.
func (s *Service) getRowData(ctx context.Context, def TableDefinition, id int64) (Row, error) {
	fields := append([]string{IDField}, def.Info.Columns...)
	dbColumns := resolveDBColumns(fields, def.FieldSpecs)

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		strings.Join(quoteColumns(dbColumns), ", "),
		quoteIdentifier(def.Info.Key),
		quoteIdentifier(IDField),
	)

	rows, err := s.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err() // Row not found
	}

	values, err := rows.Values()
	if err != nil {
		return nil, err
	}

	return decodeRow(def, fields, values), nil
}
