package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/Ex1s9/game-catalog/domain"
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique-constraint
// failure (the only error Insert classifies as a conflict).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// parseDecimal converts a numeric column selected as text. Numerics travel
// as text so the exact fixed-point value survives the round-trip.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// decimalArg renders a decimal for a $n::numeric placeholder. Nil maps to
// SQL NULL so COALESCE patch semantics work.
func decimalArg(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

// statusArg renders an optional status for a text placeholder.
func statusArg(s *domain.Status) interface{} {
	if s == nil {
		return nil
	}
	return s.String()
}

// categoriesArg renders an optional category set for a text[] placeholder.
func categoriesArg(cs *[]domain.Category) interface{} {
	if cs == nil {
		return nil
	}
	names := make([]string, len(*cs))
	for i, c := range *cs {
		names[i] = c.String()
	}
	return names
}

// textArray normalizes a slice for a NOT NULL text[] column. pgx encodes a
// nil Go slice as SQL NULL, which those columns reject.
func textArray(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

// stringsArg renders an optional string slice for a text[] placeholder.
func stringsArg(ss *[]string) interface{} {
	if ss == nil {
		return nil
	}
	return *ss
}

func categoriesFromNames(names []string) []domain.Category {
	out := make([]domain.Category, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Category(n))
	}
	return out
}
