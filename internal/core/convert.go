package core

// convert.go turns wire values into the pgtype values stored for typed columns.
//
// The editor grid sends whatever its cell editors produce: JSON booleans from
// tick boxes, but also "yes"/"1" typed into a text cell, and numbers as either
// JSON numbers or strings. Empty values become NULL. Anything else is rejected
// with ErrInvalidValue.

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// ErrInvalidValue is returned when a value cannot be stored in its column.
var ErrInvalidValue = errors.New("invalid value for column")

// numericRegex matches integers, decimals and scientific notation after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ToPgBool converts a wire value to pgtype.Bool.
// Accepts JSON booleans, 0/1 numbers and true/false, yes/no, t/f, y/n, 1/0 text.
func ToPgBool(v any) (pgtype.Bool, error) {
	switch val := v.(type) {
	case nil:
		return pgtype.Bool{}, nil
	case bool:
		return pgtype.Bool{Bool: val, Valid: true}, nil
	case float64:
		switch val {
		case 0:
			return pgtype.Bool{Bool: false, Valid: true}, nil
		case 1:
			return pgtype.Bool{Bool: true, Valid: true}, nil
		}
	case string:
		switch strings.TrimSpace(strings.ToLower(val)) {
		case "":
			return pgtype.Bool{}, nil
		case "true", "t", "yes", "y", "1":
			return pgtype.Bool{Bool: true, Valid: true}, nil
		case "false", "f", "no", "n", "0":
			return pgtype.Bool{Bool: false, Valid: true}, nil
		}
	}
	return pgtype.Bool{}, fmt.Errorf("%w: %v is not a boolean", ErrInvalidValue, v)
}

// ToPgNumeric converts a wire value to pgtype.Numeric.
// Text may carry thousands separators.
func ToPgNumeric(v any) (pgtype.Numeric, error) {
	var s string
	switch val := v.(type) {
	case nil:
		return pgtype.Numeric{}, nil
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		s = strconv.FormatInt(val, 10)
	case string:
		s = strings.ReplaceAll(strings.TrimSpace(val), ",", "")
		if s == "" {
			return pgtype.Numeric{}, nil
		}
	default:
		return pgtype.Numeric{}, fmt.Errorf("%w: %v is not a number", ErrInvalidValue, v)
	}

	if !numericRegex.MatchString(s) {
		return pgtype.Numeric{}, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, s)
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return n, nil
}
