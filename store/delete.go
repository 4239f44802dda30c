package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/landbank/onboarding/apperr"
)

// DeleteCustomer removes a customer in one transaction. Dependent rows go
// by foreign-key cascade; the shared occupation/financial/employer rows
// are reaped only when no other customer still references them. Returns
// notes describing reaped rows for the audit log.
func (s *Store) DeleteCustomer(ctx context.Context, custNo string) ([]string, error) {
	var notes []string
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var refs struct {
			OccID   sql.NullString
			FinCode sql.NullString
		}
		if err := tx.GetContext(ctx, &refs, tx.Rebind(
			"SELECT occ_id, fin_code FROM customers WHERE cust_no = ?"), custNo); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.Wrap(err, apperr.ErrCustomerNotFound, "")
			}
			return err
		}

		var empID string
		err := tx.GetContext(ctx, &empID, tx.Rebind(
			"SELECT emp_id FROM employment_details WHERE cust_no = ? LIMIT 1"), custNo)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(
			"DELETE FROM customers WHERE cust_no = ?"), custNo); err != nil {
			return err
		}

		// These are modeled 1:1 but the columns are plain foreign keys;
		// check for other referents before reaping to stay safe against
		// schema drift.
		if refs.OccID.Valid && refs.OccID.String != "" {
			reaped, err := s.reapIfUnreferenced(ctx, tx,
				"occupations", "occ_id", refs.OccID.String,
				"SELECT COUNT(*) FROM customers WHERE occ_id = ?")
			if err != nil {
				return err
			}
			if reaped {
				notes = append(notes, fmt.Sprintf("Also deleted orphaned occupation %s", refs.OccID.String))
			}
		}
		if refs.FinCode.Valid && refs.FinCode.String != "" {
			reaped, err := s.reapIfUnreferenced(ctx, tx,
				"financial_records", "fin_code", refs.FinCode.String,
				"SELECT COUNT(*) FROM customers WHERE fin_code = ?")
			if err != nil {
				return err
			}
			if reaped {
				notes = append(notes, fmt.Sprintf("Also deleted orphaned financial record %s", refs.FinCode.String))
			}
		}
		if empID != "" {
			reaped, err := s.reapIfUnreferenced(ctx, tx,
				"employer_details", "emp_id", empID,
				"SELECT COUNT(*) FROM employment_details WHERE emp_id = ?")
			if err != nil {
				return err
			}
			if reaped {
				notes = append(notes, fmt.Sprintf("Also deleted orphaned employer %s", empID))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *Store) reapIfUnreferenced(ctx context.Context, tx *sqlx.Tx, table, column, id, countQuery string) (bool, error) {
	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(countQuery), id); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(
		fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, column)), id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
