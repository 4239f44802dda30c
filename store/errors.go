package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/landbank/onboarding/apperr"
)

// translateError maps driver errors onto the application taxonomy by
// pattern-matching the driver's error text, which is the only signal the
// sqlite and pgx drivers share for integrity violations.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Wrap(err, apperr.ErrNotFound, "")
	}
	msg := err.Error()
	if isUniqueViolation(msg) {
		switch {
		case strings.Contains(msg, "email_address"):
			return apperr.Wrap(err, apperr.ErrDuplicateEmail, "")
		case strings.Contains(msg, "username"):
			return apperr.Wrap(err, apperr.ErrDuplicateUsername, "")
		case strings.Contains(msg, "cust_no"), strings.Contains(msg, "occ_id"),
			strings.Contains(msg, "fin_code"), strings.Contains(msg, "emp_id"),
			strings.Contains(msg, "bank_code"), strings.Contains(msg, "gov_id"):
			return apperr.Wrap(err, apperr.ErrDuplicateCode, "")
		default:
			return apperr.Wrap(err, apperr.ErrDatabase, "duplicate record")
		}
	}
	if isForeignKeyViolation(msg) && strings.Contains(msg, "bank") {
		return apperr.Wrap(err, apperr.ErrInvalidBank, "")
	}
	return apperr.Wrap(err, apperr.ErrDatabase, "")
}

func isUniqueViolation(msg string) bool {
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite3
		strings.Contains(msg, "duplicate key value violates unique constraint") || // pgx
		strings.Contains(msg, "SQLSTATE 23505")
}

func isForeignKeyViolation(msg string) bool {
	return strings.Contains(msg, "FOREIGN KEY constraint failed") || // sqlite3
		strings.Contains(msg, "violates foreign key constraint") || // pgx
		strings.Contains(msg, "SQLSTATE 23503")
}
