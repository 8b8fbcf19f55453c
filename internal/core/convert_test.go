package core

import (
	"errors"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestToPgBool(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    pgtype.Bool
		wantErr bool
	}{
		{"nil", nil, pgtype.Bool{}, false},
		{"json true", true, pgtype.Bool{Bool: true, Valid: true}, false},
		{"json false", false, pgtype.Bool{Bool: false, Valid: true}, false},
		{"number one", float64(1), pgtype.Bool{Bool: true, Valid: true}, false},
		{"number zero", float64(0), pgtype.Bool{Bool: false, Valid: true}, false},
		{"number two", float64(2), pgtype.Bool{}, true},
		{"empty", "", pgtype.Bool{}, false},
		{"whitespace", "   ", pgtype.Bool{}, false},
		{"yes", "yes", pgtype.Bool{Bool: true, Valid: true}, false},
		{"YES", "YES", pgtype.Bool{Bool: true, Valid: true}, false},
		{"padded no", "  no ", pgtype.Bool{Bool: false, Valid: true}, false},
		{"t", "t", pgtype.Bool{Bool: true, Valid: true}, false},
		{"F", "F", pgtype.Bool{Bool: false, Valid: true}, false},
		{"text one", "1", pgtype.Bool{Bool: true, Valid: true}, false},
		{"maybe", "maybe", pgtype.Bool{}, true},
		{"list", []any{true}, pgtype.Bool{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToPgBool(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Errorf("ToPgBool(%v) error = %v, want ErrInvalidValue", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToPgBool(%v) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ToPgBool(%v) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestToPgNumeric(t *testing.T) {
	tests := []struct {
		name      string
		input     any
		wantValid bool
		wantInt   int64
		wantExp   int32
		wantErr   bool
	}{
		{"nil", nil, false, 0, 0, false},
		{"empty", "", false, 0, 0, false},
		{"float", float64(12.5), true, 125, -1, false},
		{"int64", int64(42), true, 42, 0, false},
		{"text", "123", true, 123, 0, false},
		{"thousands", "1,234", true, 1234, 0, false},
		{"negative", "-7.25", true, -725, -2, false},
		{"letters", "abc", false, 0, 0, true},
		{"bool", true, false, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToPgNumeric(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Errorf("ToPgNumeric(%v) error = %v, want ErrInvalidValue", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToPgNumeric(%v) error = %v", tt.input, err)
			}
			if got.Valid != tt.wantValid {
				t.Fatalf("ToPgNumeric(%v).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
			if !tt.wantValid {
				return
			}
			if got.Int.Cmp(big.NewInt(tt.wantInt)) != 0 || got.Exp != tt.wantExp {
				t.Errorf("ToPgNumeric(%v) = %v e%d, want %d e%d", tt.input, got.Int, got.Exp, tt.wantInt, tt.wantExp)
			}
		})
	}
}

func TestEncodeValue(t *testing.T) {
	boolSpec := FieldSpec{Name: "hasAds", Type: FieldBool}
	got, err := encodeValue(boolSpec, "yes")
	if err != nil {
		t.Fatalf("encodeValue error = %v", err)
	}
	if got != (pgtype.Bool{Bool: true, Valid: true}) {
		t.Errorf("encodeValue(bool, yes) = %v", got)
	}

	if _, err := encodeValue(boolSpec, "sometimes"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("encodeValue(bool, sometimes) error = %v, want ErrInvalidValue", err)
	}

	textSpec := FieldSpec{Name: "siteName", Type: FieldText}
	if got, _ := encodeValue(textSpec, "Alpha"); got != "Alpha" {
		t.Errorf("encodeValue(text) = %v, want Alpha", got)
	}
}
