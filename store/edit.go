package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/landbank/onboarding/apperr"
	"github.com/landbank/onboarding/kyc"
)

// UpdateCustomer applies an admin edit as one transaction: the customer
// base row is updated and diffed, the 1:1 children (occupation, financial
// record, spouse, employer) follow an update-if-exists-else-insert-and-link
// pattern with deletion when the driving field went away, and the
// multi-valued children are replaced wholesale (delete then reinsert).
// Returns "field: 'old' -> 'new'" summaries for the audit log.
func (s *Store) UpdateCustomer(ctx context.Context, custNo string, u *kyc.Update) ([]string, error) {
	var changed []string
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var original kyc.Customer
		if err := tx.GetContext(ctx, &original, tx.Rebind(
			"SELECT * FROM customers WHERE cust_no = ?"), custNo); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.Wrap(err, apperr.ErrCustomerNotFound, "")
			}
			return err
		}

		p := u.Personal
		status := u.RegistrationStatus
		if status == "" {
			status = original.RegistrationStatus
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE customers SET
			custname = ?, datebirth = ?, nationality = ?, citizenship = ?, custsex = ?,
			placebirth = ?, civilstatus = ?, num_children = ?, mmaiden_name = ?,
			cust_address = ?, email_address = ?, contact_no = ?, registration_status = ?, updated_at = ?
			WHERE cust_no = ?`),
			p.Custname, p.Datebirth, p.Nationality, p.Citizenship, p.Custsex,
			p.Placebirth, p.Civilstatus, p.NumChildren, p.MmaidenName,
			p.CustAddress, strings.ToLower(p.EmailAddress), p.ContactNo, status, time.Now().UTC(),
			custNo); err != nil {
			return err
		}

		if err := s.upsertOccupation(ctx, tx, custNo, original.OccID, u.Employment); err != nil {
			return err
		}
		if err := s.upsertFinancial(ctx, tx, custNo, original.FinCode, u.Employment); err != nil {
			return err
		}
		if err := s.reconcileSpouse(ctx, tx, custNo, u); err != nil {
			return err
		}
		if err := s.reconcileEmployer(ctx, tx, custNo, u); err != nil {
			return err
		}

		// Replace-all-children for the multi-valued tables: simpler than
		// diffing and the row counts are tiny.
		for _, table := range []string{"company_affiliations", "existing_banks", "cust_po_relationships"} {
			if _, err := tx.ExecContext(ctx, tx.Rebind(
				fmt.Sprintf("DELETE FROM %s WHERE cust_no = ?", table)), custNo); err != nil {
				return err
			}
		}
		if err := s.insertDisclosures(ctx, tx, custNo, u.Disclosure); err != nil {
			return err
		}

		changed = diffCustomer(original, p, status)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changed, nil
}

func (s *Store) upsertOccupation(ctx context.Context, tx *sqlx.Tx, custNo, occID string, e kyc.EmploymentInfo) error {
	if occID != "" {
		_, err := tx.ExecContext(ctx, tx.Rebind(
			"UPDATE occupations SET occupation = ?, business_nature = ? WHERE occ_id = ?"),
			e.Occupation, e.BusinessNature, occID)
		return err
	}
	newID, err := nextCode(ctx, tx, tx.Rebind, "occupations", "occ_id", PrefixOccupation, WidthOccupation)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(
		"INSERT INTO occupations (occ_id, occupation, business_nature) VALUES (?, ?, ?)"),
		newID, e.Occupation, e.BusinessNature); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(
		"UPDATE customers SET occ_id = ? WHERE cust_no = ?"), newID, custNo)
	return err
}

func (s *Store) upsertFinancial(ctx context.Context, tx *sqlx.Tx, custNo, finCode string, e kyc.EmploymentInfo) error {
	if finCode != "" {
		_, err := tx.ExecContext(ctx, tx.Rebind(
			"UPDATE financial_records SET source_of_wealth = ?, monthly_income = ?, annual_income = ? WHERE fin_code = ?"),
			e.SourceOfWealth, e.MonthlyIncome, e.AnnualIncome, finCode)
		return err
	}
	newCode, err := nextCode(ctx, tx, tx.Rebind, "financial_records", "fin_code", PrefixFinancial, WidthFinancial)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(
		"INSERT INTO financial_records (fin_code, source_of_wealth, monthly_income, annual_income) VALUES (?, ?, ?, ?)"),
		newCode, e.SourceOfWealth, e.MonthlyIncome, e.AnnualIncome); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(
		"UPDATE customers SET fin_code = ? WHERE cust_no = ?"), newCode, custNo)
	return err
}

// reconcileSpouse keeps the at-most-one-spouse invariant: a complete
// married payload upserts the row, anything else deletes it.
func (s *Store) reconcileSpouse(ctx context.Context, tx *sqlx.Tx, custNo string, u *kyc.Update) error {
	if !u.Married() {
		_, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM spouses WHERE cust_no = ?"), custNo)
		return err
	}
	p := u.Personal
	res, err := tx.ExecContext(ctx, tx.Rebind(
		"UPDATE spouses SET spouse_name = ?, spouse_birthdate = ?, spouse_profession = ? WHERE cust_no = ?"),
		p.SpouseName, p.SpouseBirthdate, p.SpouseProfession, custNo)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(
		"INSERT INTO spouses (cust_no, spouse_name, spouse_birthdate, spouse_profession) VALUES (?, ?, ?, ?)"),
		custNo, p.SpouseName, p.SpouseBirthdate, p.SpouseProfession)
	return err
}

// reconcileEmployer updates the linked employer when still employed,
// creates and links one when newly employed, and unlinks (reaping the
// employer row when nothing else references it) otherwise.
func (s *Store) reconcileEmployer(ctx context.Context, tx *sqlx.Tx, custNo string, u *kyc.Update) error {
	var empID string
	err := tx.GetContext(ctx, &empID, tx.Rebind(
		"SELECT emp_id FROM employment_details WHERE cust_no = ? LIMIT 1"), custNo)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if !u.Employed() {
		if empID == "" {
			return nil
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			"DELETE FROM employment_details WHERE cust_no = ?"), custNo); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, tx.Rebind(
			"DELETE FROM employer_details WHERE emp_id = ? AND NOT EXISTS (SELECT 1 FROM employment_details WHERE emp_id = ?)"),
			empID, empID)
		return err
	}

	e := u.Employment
	if empID != "" {
		_, err := tx.ExecContext(ctx, tx.Rebind(
			"UPDATE employer_details SET emp_name = ?, emp_address = ?, tin_no = ?, job_title = ?, date_employed = ? WHERE emp_id = ?"),
			e.EmpName, e.EmpAddress, e.TinNo, e.JobTitle, e.DateEmployed, empID)
		return err
	}
	return s.insertEmployer(ctx, tx, custNo, e)
}

func diffCustomer(original kyc.Customer, p kyc.PersonalInfo, status string) []string {
	old := map[string]string{
		"custname":            original.Custname,
		"datebirth":           original.Datebirth,
		"nationality":         original.Nationality,
		"citizenship":         original.Citizenship,
		"custsex":             original.Custsex,
		"placebirth":          original.Placebirth,
		"civilstatus":         original.Civilstatus,
		"num_children":        fmt.Sprintf("%d", original.NumChildren),
		"mmaiden_name":        original.MmaidenName,
		"cust_address":        original.CustAddress,
		"email_address":       original.EmailAddress,
		"contact_no":          original.ContactNo,
		"registration_status": original.RegistrationStatus,
	}
	next := map[string]string{
		"custname":            p.Custname,
		"datebirth":           p.Datebirth,
		"nationality":         p.Nationality,
		"citizenship":         p.Citizenship,
		"custsex":             p.Custsex,
		"placebirth":          p.Placebirth,
		"civilstatus":         p.Civilstatus,
		"num_children":        fmt.Sprintf("%d", p.NumChildren),
		"mmaiden_name":        p.MmaidenName,
		"cust_address":        p.CustAddress,
		"email_address":       strings.ToLower(p.EmailAddress),
		"contact_no":          p.ContactNo,
		"registration_status": status,
	}
	fields := []string{
		"custname", "datebirth", "nationality", "citizenship", "custsex", "placebirth",
		"civilstatus", "num_children", "mmaiden_name", "cust_address", "email_address",
		"contact_no", "registration_status",
	}
	var changed []string
	for _, f := range fields {
		if old[f] != next[f] {
			changed = append(changed, fmt.Sprintf("%s: '%s' -> '%s'", f, old[f], next[f]))
		}
	}
	return changed
}
