package core

import (
	"context"
	"fmt"
	"strings"
)

// Update writes the fields of row to the persisted row with the same id.
// Unknown fields are ignored.
func (s *Service) Update(ctx context.Context, tableKey string, row Row) (Status, error) {
	def, ok := Get(tableKey)
	if !ok {
		return StatusTableNotFound, nil
	}
	if len(row) == 0 {
		return StatusNoData, nil
	}

	id, ok := ParseRowID(row[IDField])
	if !ok {
		return StatusIDNotFound, nil
	}

	before, err := s.getRowData(ctx, def, id)
	if err != nil {
		return "", fmt.Errorf("lookup %s/%d: %w", tableKey, id, err)
	}
	if before == nil {
		return StatusIDNotFound, nil
	}

	specs := writableFields(def, row)
	if len(specs) > 0 {
		sets := make([]string, len(specs))
		args := make([]interface{}, 0, len(specs)+1)
		args = append(args, id)
		for i, spec := range specs {
			val, err := encodeValue(spec, row[spec.Name])
			if err != nil {
				return "", err
			}
			sets[i] = fmt.Sprintf("%s = $%d", quoteIdentifier(resolveDBColumn(spec.Name, def.FieldSpecs)), i+2)
			args = append(args, val)
		}

		query := fmt.Sprintf(
			"UPDATE %s SET %s WHERE %s = $1",
			quoteIdentifier(tableKey),
			strings.Join(sets, ", "),
			quoteIdentifier(IDField),
		)
		if _, err := s.pool.Exec(ctx, query, args...); err != nil {
			return "", fmt.Errorf("update %s/%d: %w", tableKey, id, err)
		}
	}

	s.RecordChange(ctx, ActionUpdate, tableKey, before, row)
	return StatusUpdated, nil
}

// Insert persists row as a new record. Any id on the row is ignored;
// the database assigns one.
func (s *Service) Insert(ctx context.Context, tableKey string, row Row) (Status, error) {
	def, ok := Get(tableKey)
	if !ok {
		return StatusTableNotFound, nil
	}
	if len(row) == 0 {
		return StatusNoData, nil
	}

	specs := writableFields(def, row)

	var query string
	args := make([]interface{}, 0, len(specs))
	if len(specs) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", quoteIdentifier(tableKey))
	} else {
		cols := make([]string, len(specs))
		placeholders := make([]string, len(specs))
		for i, spec := range specs {
			val, err := encodeValue(spec, row[spec.Name])
			if err != nil {
				return "", err
			}
			cols[i] = quoteIdentifier(resolveDBColumn(spec.Name, def.FieldSpecs))
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args = append(args, val)
		}
		query = fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s)",
			quoteIdentifier(tableKey),
			strings.Join(cols, ", "),
			strings.Join(placeholders, ", "),
		)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert %s: %w", tableKey, err)
	}

	s.RecordChange(ctx, ActionInsert, tableKey, nil, row)
	return StatusInserted, nil
}

// Delete removes the row with the given id.
func (s *Service) Delete(ctx context.Context, tableKey, rawID string) (Status, error) {
	def, ok := Get(tableKey)
	if !ok {
		return StatusTableNotFound, nil
	}

	id, ok := ParseRowID(rawID)
	if !ok {
		return StatusIDNotFound, nil
	}

	before, err := s.getRowData(ctx, def, id)
	if err != nil {
		return "", fmt.Errorf("lookup %s/%d: %w", tableKey, id, err)
	}
	if before == nil {
		return StatusIDNotFound, nil
	}

	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1",
		quoteIdentifier(tableKey),
		quoteIdentifier(IDField),
	)
	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return "", fmt.Errorf("delete %s/%d: %w", tableKey, id, err)
	}

	s.RecordChange(ctx, ActionDelete, tableKey, before, nil)
	return StatusDeleted, nil
}
