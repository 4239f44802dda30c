package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/landbank/onboarding/kyc"
)

// RegisterCustomer runs the whole account-opening write as one
// transaction: occupation and financial record first, then the customer
// row referencing them, then the conditional employer/spouse rows, the
// zipped disclosure lists and finally the login credentials. Any failed
// statement rolls everything back. Returns the new customer code.
func (s *Store) RegisterCustomer(ctx context.Context, reg *kyc.Registration) (string, error) {
	var custNo string
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		occID, err := nextCode(ctx, tx, tx.Rebind, "occupations", "occ_id", PrefixOccupation, WidthOccupation)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			"INSERT INTO occupations (occ_id, occupation, business_nature) VALUES (?, ?, ?)"),
			occID, reg.Employment.Occupation, reg.Employment.BusinessNature); err != nil {
			return err
		}

		finCode, err := nextCode(ctx, tx, tx.Rebind, "financial_records", "fin_code", PrefixFinancial, WidthFinancial)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			"INSERT INTO financial_records (fin_code, source_of_wealth, monthly_income, annual_income) VALUES (?, ?, ?, ?)"),
			finCode, reg.Employment.SourceOfWealth, reg.Employment.MonthlyIncome, reg.Employment.AnnualIncome); err != nil {
			return err
		}

		custNo, err = nextCode(ctx, tx, tx.Rebind, "customers", "cust_no", PrefixCustomer, WidthCustomer)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		p := reg.Personal
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO customers (
			cust_no, custname, datebirth, nationality, citizenship, custsex, placebirth,
			civilstatus, num_children, mmaiden_name, cust_address, email_address, contact_no,
			registration_status, occ_id, fin_code, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			custNo, p.Custname, p.Datebirth, p.Nationality, p.Citizenship, p.Custsex, p.Placebirth,
			p.Civilstatus, p.NumChildren, p.MmaidenName, p.CustAddress, strings.ToLower(p.EmailAddress), p.ContactNo,
			kyc.StatusPending, occID, finCode, now, now); err != nil {
			return err
		}

		if reg.Employed() {
			if err := s.insertEmployer(ctx, tx, custNo, reg.Employment); err != nil {
				return err
			}
		}

		if reg.Married() {
			if _, err := tx.ExecContext(ctx, tx.Rebind(
				"INSERT INTO spouses (cust_no, spouse_name, spouse_birthdate, spouse_profession) VALUES (?, ?, ?, ?)"),
				custNo, p.SpouseName, p.SpouseBirthdate, p.SpouseProfession); err != nil {
				return err
			}
		}

		if err := s.insertDisclosures(ctx, tx, custNo, reg.Disclosure); err != nil {
			return err
		}

		// Placeholder credential: the customer code doubles as the
		// initial password until the customer changes it. Stored in
		// plaintext, matching the legacy login contract.
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			"INSERT INTO credentials (cust_no, username, password) VALUES (?, ?, ?)"),
			custNo, reg.LoginUsername(), custNo); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return custNo, nil
}

func (s *Store) insertEmployer(ctx context.Context, tx *sqlx.Tx, custNo string, e kyc.EmploymentInfo) error {
	empID, err := nextCode(ctx, tx, tx.Rebind, "employer_details", "emp_id", PrefixEmployer, WidthEmployer)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(
		"INSERT INTO employer_details (emp_id, emp_name, emp_address, tin_no, job_title, date_employed) VALUES (?, ?, ?, ?, ?, ?)"),
		empID, e.EmpName, e.EmpAddress, e.TinNo, e.JobTitle, e.DateEmployed); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(
		"INSERT INTO employment_details (cust_no, emp_id) VALUES (?, ?)"), custNo, empID)
	return err
}

// insertDisclosures writes the zipped multi-valued lists: company
// affiliations as-is, bank and PEP rows through their dedup lookups.
func (s *Store) insertDisclosures(ctx context.Context, tx *sqlx.Tx, custNo string, d kyc.DisclosureInfo) error {
	for _, a := range d.Affiliations() {
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			"INSERT INTO company_affiliations (cust_no, role, company_name) VALUES (?, ?, ?)"),
			custNo, a.Role, a.CompanyName); err != nil {
			return err
		}
	}
	for _, b := range d.BankEntries() {
		code, err := s.ensureBank(ctx, tx, b.BankName, b.Branch)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			"INSERT INTO existing_banks (cust_no, bank_code, account_type) VALUES (?, ?, ?)"),
			custNo, code, b.AccountType); err != nil {
			return err
		}
	}
	for _, o := range d.Officials() {
		govID, err := s.ensureOfficial(ctx, tx, o.PoName, o.PoPosition, o.OrgName)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			"INSERT INTO cust_po_relationships (cust_no, gov_id, relationship) VALUES (?, ?, ?)"),
			custNo, govID, o.Relationship); err != nil {
			return err
		}
	}
	return nil
}

// ensureBank returns the bank_code for (name, branch), inserting a new
// lookup row when the pair is not present yet.
func (s *Store) ensureBank(ctx context.Context, tx *sqlx.Tx, name, branch string) (string, error) {
	var code string
	err := tx.GetContext(ctx, &code, tx.Rebind(
		"SELECT bank_code FROM bank_details WHERE bank_name = ? AND branch = ?"), name, branch)
	if err == nil {
		return code, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	code, err = nextCode(ctx, tx, tx.Rebind, "bank_details", "bank_code", PrefixBank, WidthBank)
	if err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(
		"INSERT INTO bank_details (bank_code, bank_name, branch) VALUES (?, ?, ?)"), code, name, branch); err != nil {
		return "", err
	}
	return code, nil
}

// ensureOfficial returns the gov_id for (name, position, org), inserting
// a new public-official row when the triple is not present yet.
func (s *Store) ensureOfficial(ctx context.Context, tx *sqlx.Tx, name, position, org string) (string, error) {
	var govID string
	err := tx.GetContext(ctx, &govID, tx.Rebind(
		"SELECT gov_id FROM public_official_details WHERE po_name = ? AND po_position = ? AND org_name = ?"),
		name, position, org)
	if err == nil {
		return govID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	govID, err = nextCode(ctx, tx, tx.Rebind, "public_official_details", "gov_id", PrefixOfficial, WidthOfficial)
	if err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(
		"INSERT INTO public_official_details (gov_id, po_name, po_position, org_name) VALUES (?, ?, ?, ?)"),
		govID, name, position, org); err != nil {
		return "", err
	}
	return govID, nil
}
