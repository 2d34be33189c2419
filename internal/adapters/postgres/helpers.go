package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// nullText creates a pgtype.Text with empty string handling
func nullText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// centsToNumeric stores minor units as a two-digit NUMERIC, nil as NULL
func centsToNumeric(cents *int64) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if cents == nil {
		return n, nil
	}
	if err := n.Scan(decimal.New(*cents, -2).StringFixed(2)); err != nil {
		return n, fmt.Errorf("convert amount: %w", err)
	}
	return n, nil
}

// numericToCents is the inverse of centsToNumeric
func numericToCents(n pgtype.Numeric) (*int64, error) {
	if !n.Valid {
		return nil, nil
	}
	dec, err := pgNumericToDecimal(n)
	if err != nil {
		return nil, err
	}
	cents := dec.Shift(2).IntPart()
	return &cents, nil
}

// pgNumericToDecimal converts pgtype.Numeric to decimal.Decimal
func pgNumericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	var dec decimal.Decimal
	str, err := n.MarshalJSON()
	if err != nil {
		return dec, fmt.Errorf("marshal numeric: %w", err)
	}
	// Remove quotes from JSON string
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	return decimal.NewFromString(string(str))
}
