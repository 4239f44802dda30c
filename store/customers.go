package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/landbank/onboarding/apperr"
	"github.com/landbank/onboarding/kyc"
)

// ListFilter narrows the admin dashboard listing. Query matches customer
// code, name or email; From/To bound the registration timestamp.
type ListFilter struct {
	Query  string
	Status string
	From   time.Time
	To     time.Time
}

// ListCustomers returns customers for the dashboard, newest first.
func (s *Store) ListCustomers(ctx context.Context, f ListFilter) ([]kyc.Customer, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	var where []string
	var args []any
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		where = append(where, "(LOWER(cust_no) LIKE ? OR LOWER(custname) LIKE ? OR LOWER(email_address) LIKE ?)")
		args = append(args, like, like, like)
	}
	if f.Status != "" {
		where = append(where, "registration_status = ?")
		args = append(args, f.Status)
	}
	if !f.From.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		where = append(where, "created_at < ?")
		args = append(args, f.To.UTC())
	}
	stmt := "SELECT * FROM customers"
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY created_at DESC, cust_no DESC"

	customers := []kyc.Customer{}
	if err := db.SelectContext(ctx, &customers, db.Rebind(stmt), args...); err != nil {
		return nil, translateError(err)
	}
	return customers, nil
}

func (s *Store) CountCustomers(ctx context.Context) (int, error) {
	db, err := s.ensureDB()
	if err != nil {
		return 0, err
	}
	var total int
	if err := db.GetContext(ctx, &total, "SELECT COUNT(*) FROM customers"); err != nil {
		return 0, translateError(err)
	}
	return total, nil
}

// GetCustomer loads a customer and every dependent row.
func (s *Store) GetCustomer(ctx context.Context, custNo string) (*kyc.Record, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	var rec kyc.Record
	if err := db.GetContext(ctx, &rec.Customer, db.Rebind(
		"SELECT * FROM customers WHERE cust_no = ?"), custNo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Wrap(err, apperr.ErrCustomerNotFound, "")
		}
		return nil, translateError(err)
	}

	if rec.Customer.OccID != "" {
		if err := db.GetContext(ctx, &rec.Occupation, db.Rebind(
			"SELECT * FROM occupations WHERE occ_id = ?"), rec.Customer.OccID); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, translateError(err)
		}
	}
	if rec.Customer.FinCode != "" {
		if err := db.GetContext(ctx, &rec.Financial, db.Rebind(
			"SELECT * FROM financial_records WHERE fin_code = ?"), rec.Customer.FinCode); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, translateError(err)
		}
	}

	var spouse kyc.Spouse
	err = db.GetContext(ctx, &spouse, db.Rebind("SELECT * FROM spouses WHERE cust_no = ?"), custNo)
	switch {
	case err == nil:
		rec.Spouse = &spouse
	case !errors.Is(err, sql.ErrNoRows):
		return nil, translateError(err)
	}

	var employer kyc.Employer
	err = db.GetContext(ctx, &employer, db.Rebind(`SELECT e.* FROM employer_details e
		JOIN employment_details ed ON ed.emp_id = e.emp_id
		WHERE ed.cust_no = ? LIMIT 1`), custNo)
	switch {
	case err == nil:
		rec.Employer = &employer
	case !errors.Is(err, sql.ErrNoRows):
		return nil, translateError(err)
	}

	rec.Affiliations = []kyc.CompanyAffiliation{}
	if err := db.SelectContext(ctx, &rec.Affiliations, db.Rebind(
		"SELECT * FROM company_affiliations WHERE cust_no = ? ORDER BY role, company_name"), custNo); err != nil {
		return nil, translateError(err)
	}

	rec.Banks = []kyc.ExistingBank{}
	if err := db.SelectContext(ctx, &rec.Banks, db.Rebind(`SELECT eb.cust_no, eb.bank_code, b.bank_name, b.branch, eb.account_type
		FROM existing_banks eb JOIN bank_details b ON b.bank_code = eb.bank_code
		WHERE eb.cust_no = ? ORDER BY eb.bank_code`), custNo); err != nil {
		return nil, translateError(err)
	}

	rec.Officials = []kyc.PORelationship{}
	if err := db.SelectContext(ctx, &rec.Officials, db.Rebind(`SELECT r.cust_no, r.gov_id, p.po_name, p.po_position, p.org_name, r.relationship
		FROM cust_po_relationships r JOIN public_official_details p ON p.gov_id = r.gov_id
		WHERE r.cust_no = ? ORDER BY r.gov_id`), custNo); err != nil {
		return nil, translateError(err)
	}

	err = db.GetContext(ctx, &rec.Username, db.Rebind(
		"SELECT username FROM credentials WHERE cust_no = ? LIMIT 1"), custNo)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, translateError(err)
	}
	return &rec, nil
}
