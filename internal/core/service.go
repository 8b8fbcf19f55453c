package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Service provides the row persistence for all registered tables.
type Service struct {
	pool DBTX
}

// NewService creates a new Service instance.
func NewService(pool DBTX) *Service {
	return &Service{pool: pool}
}

// ListTabs returns the registered tables grouped by tab.
func (s *Service) ListTabs() map[string][]TableInfo {
	result := make(map[string][]TableInfo)
	for _, tab := range Tabs() {
		for _, def := range ByTab(tab) {
			result[tab] = append(result[tab], def.Info)
		}
	}
	return result
}

// TablesByTab returns the table keys listed under a tab.
func (s *Service) TablesByTab(tab string) ([]string, Status) {
	defs := ByTab(tab)
	if len(defs) == 0 {
		return nil, StatusTabNotFound
	}
	keys := make([]string, len(defs))
	for i, def := range defs {
		keys[i] = def.Info.Key
	}
	return keys, ""
}

// FetchData returns every row of a table ordered by id.
// Address-list fields are returned in their ", "-joined wire form.
func (s *Service) FetchData(ctx context.Context, tableKey string) ([]Row, error) {
	def, ok := Get(tableKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, tableKey)
	}

	fields := append([]string{IDField}, def.Info.Columns...)
	dbColumns := resolveDBColumns(fields, def.FieldSpecs)

	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s",
		strings.Join(quoteColumns(dbColumns), ", "),
		quoteIdentifier(tableKey),
		quoteIdentifier(IDField),
	)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", tableKey, err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", tableKey, err)
		}
		result = append(result, decodeRow(def, fields, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", tableKey, err)
	}

	return result, nil
}

// decodeRow builds a wire row from database values.
func decodeRow(def TableDefinition, fields []string, values []any) Row {
	row := make(Row, len(fields))
	for i, field := range fields {
		if i >= len(values) {
			break
		}
		v := values[i]
		if spec, ok := def.Spec(field); ok && spec.Type == FieldAddressList {
			v = decodeAddresses(v)
		}
		row[field] = v
	}
	return row
}

// encodeValue converts a wire value into the value stored for the field.
func encodeValue(spec FieldSpec, v any) (any, error) {
	switch spec.Type {
	case FieldBool:
		b, err := ToPgBool(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", spec.Name, err)
		}
		return b, nil
	case FieldNumeric:
		n, err := ToPgNumeric(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", spec.Name, err)
		}
		return n, nil
	case FieldAddressList:
		if v == nil {
			return nil, nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", spec.Name, err)
		}
		return string(b), nil
	default:
		return v, nil
	}
}

// decodeAddresses turns a stored JSON value back into the ", "-joined form.
// Values that are not valid JSON are returned unchanged.
func decodeAddresses(v any) any {
	raw, ok := v.(string)
	if !ok {
		return v
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return raw
	}

	switch val := decoded.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ", ")
	default:
		return raw
	}
}

// writableFields returns the known, non-id fields present in a row,
// sorted for stable query text.
func writableFields(def TableDefinition, row Row) []FieldSpec {
	var specs []FieldSpec
	for name := range row {
		if name == IDField {
			continue
		}
		if spec, ok := def.Spec(name); ok {
			specs = append(specs, spec)
		}
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}
