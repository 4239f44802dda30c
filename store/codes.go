package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Code prefixes and zero-padding widths for the human-readable keys the
// schema uses (C001, OC01, F1, EMP001, SP1, B1, OFF001).
const (
	PrefixCustomer   = "C"
	PrefixOccupation = "OC"
	PrefixFinancial  = "F"
	PrefixEmployer   = "EMP"
	PrefixBank       = "B"
	PrefixOfficial   = "OFF"

	WidthCustomer   = 3
	WidthOccupation = 2
	WidthFinancial  = 1
	WidthEmployer   = 3
	WidthBank       = 1
	WidthOfficial   = 3
)

// nextCode returns the next sequential code for a prefix: read the
// highest existing code, parse the numeric suffix, increment, zero-pad.
// The read-then-insert scheme holds no lock; two concurrent transactions
// can draw the same code, in which case the later insert fails its
// primary key and that transaction rolls back cleanly.
func nextCode(ctx context.Context, q sqlx.QueryerContext, rebind func(string) string, table, column, prefix string, width int) (string, error) {
	stmt := rebind(fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s LIKE ? ORDER BY LENGTH(%s) DESC, %s DESC LIMIT 1",
		column, table, column, column, column))
	var last string
	err := sqlx.GetContext(ctx, q, &last, stmt, prefix+"%")
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Sprintf("%s%0*d", prefix, width, 1), nil
	case err != nil:
		return "", err
	}
	n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
	if err != nil {
		return "", fmt.Errorf("malformed code %q in %s.%s: %w", last, table, column, err)
	}
	return fmt.Sprintf("%s%0*d", prefix, width, n+1), nil
}

// NextCode is the autocommit variant, used by callers outside a
// transaction and by tests asserting the sequence behavior.
func (s *Store) NextCode(ctx context.Context, table, column, prefix string, width int) (string, error) {
	db, err := s.ensureDB()
	if err != nil {
		return "", err
	}
	return nextCode(ctx, db, db.Rebind, table, column, prefix, width)
}
