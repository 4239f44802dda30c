package store

import (
	"context"
	"testing"

	"github.com/landbank/onboarding/apperr"
	"github.com/landbank/onboarding/kyc"
)

func TestRegisterCustomerSingleUnemployed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	custNo, err := s.RegisterCustomer(ctx, singleUnemployed("Juan@Example.COM"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if custNo != "C001" {
		t.Errorf("cust_no = %q, want C001", custNo)
	}

	rec, err := s.GetCustomer(ctx, custNo)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Customer.RegistrationStatus != kyc.StatusPending {
		t.Errorf("status = %q, want %q", rec.Customer.RegistrationStatus, kyc.StatusPending)
	}
	if rec.Customer.EmailAddress != "juan@example.com" {
		t.Errorf("email not lowercased: %q", rec.Customer.EmailAddress)
	}
	if rec.Customer.OccID != "OC01" {
		t.Errorf("occ_id = %q, want OC01", rec.Customer.OccID)
	}
	if rec.Customer.FinCode != "F1" {
		t.Errorf("fin_code = %q, want F1", rec.Customer.FinCode)
	}
	if rec.Spouse != nil {
		t.Error("spouse row created for a single customer")
	}
	if rec.Employer != nil {
		t.Error("employer row created for an unemployed customer")
	}
	if rec.Username != "juan@example.com" {
		t.Errorf("username = %q, want juan@example.com", rec.Username)
	}

	// Placeholder credential: password is the customer code, stored as-is.
	var password string
	if err := s.DB.Get(&password, "SELECT password FROM credentials WHERE cust_no = ?", custNo); err != nil {
		t.Fatalf("credential: %v", err)
	}
	if password != custNo {
		t.Errorf("password = %q, want %q", password, custNo)
	}
}

func TestRegisterCustomerMarriedEmployed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	reg := marriedEmployed("maria@example.com")
	reg.Disclosure = kyc.DisclosureInfo{
		Roles:         []string{"Director"},
		Companies:     []string{"Acme Trading Corp"},
		BankNames:     []string{"First National"},
		Branches:      []string{"Makati"},
		AccountTypes:  []string{"Savings"},
		PoNames:       []string{"Jose Santos"},
		PoPositions:   []string{"Mayor"},
		OrgNames:      []string{"City Hall"},
		Relationships: []string{"Uncle"},
	}

	custNo, err := s.RegisterCustomer(ctx, reg)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	rec, err := s.GetCustomer(ctx, custNo)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Spouse == nil || rec.Spouse.SpouseName != "Maria Dela Cruz" {
		t.Errorf("spouse = %+v, want Maria Dela Cruz", rec.Spouse)
	}
	if rec.Employer == nil || rec.Employer.EmpID != "EMP001" {
		t.Errorf("employer = %+v, want EMP001", rec.Employer)
	}
	if len(rec.Affiliations) != 1 || rec.Affiliations[0].Role != "Director" {
		t.Errorf("affiliations = %+v", rec.Affiliations)
	}
	if len(rec.Banks) != 1 || rec.Banks[0].BankName != "First National" || rec.Banks[0].AccountType != "Savings" {
		t.Errorf("banks = %+v", rec.Banks)
	}
	if len(rec.Officials) != 1 || rec.Officials[0].Relationship != "Uncle" {
		t.Errorf("officials = %+v", rec.Officials)
	}
}

func TestRegisterSkipsIncompleteDisclosureRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	reg := singleUnemployed("skip@example.com")
	reg.Disclosure = kyc.DisclosureInfo{
		Roles:     []string{"Director", ""},
		Companies: []string{"", "Orphan Co"},
		BankNames: []string{"First National"},
		Branches:  []string{""},
	}
	custNo, err := s.RegisterCustomer(ctx, reg)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	rec, err := s.GetCustomer(ctx, custNo)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(rec.Affiliations) != 0 {
		t.Errorf("affiliations = %+v, want none", rec.Affiliations)
	}
	if len(rec.Banks) != 0 {
		t.Errorf("banks = %+v, want none", rec.Banks)
	}
}

func TestRegisterBankLookupDeduplicated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		reg := singleUnemployed(email)
		reg.Disclosure = kyc.DisclosureInfo{
			BankNames:    []string{"First National"},
			Branches:     []string{"Makati"},
			AccountTypes: []string{"Savings"},
		}
		if _, err := s.RegisterCustomer(ctx, reg); err != nil {
			t.Fatalf("register %s: %v", email, err)
		}
	}

	if n := countRows(t, s, "bank_details"); n != 1 {
		t.Errorf("bank_details rows = %d, want 1", n)
	}
	if n := countRows(t, s, "existing_banks"); n != 2 {
		t.Errorf("existing_banks rows = %d, want 2", n)
	}
}

func TestRegisterDuplicateEmailRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.RegisterCustomer(ctx, singleUnemployed("dup@example.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}

	reg := singleUnemployed("DUP@example.com")
	reg.Personal.Username = "other_user"
	_, err := s.RegisterCustomer(ctx, reg)
	if err == nil {
		t.Fatal("second register succeeded, want duplicate_email")
	}
	if apperr.Code(err) != "duplicate_email" {
		t.Errorf("code = %q, want duplicate_email", apperr.Code(err))
	}
	if apperr.Status(err) != 409 {
		t.Errorf("status = %d, want 409", apperr.Status(err))
	}

	// The whole transaction rolls back: no half-written occupation or
	// financial record survives the failed attempt.
	for table, want := range map[string]int{
		"customers":         1,
		"occupations":       1,
		"financial_records": 1,
		"credentials":       1,
	} {
		if n := countRows(t, s, table); n != want {
			t.Errorf("%s rows = %d, want %d", table, n, want)
		}
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	reg := singleUnemployed("u1@example.com")
	reg.Personal.Username = "juandc"
	if _, err := s.RegisterCustomer(ctx, reg); err != nil {
		t.Fatalf("first register: %v", err)
	}

	second := singleUnemployed("u2@example.com")
	second.Personal.Username = "JuanDC"
	_, err := s.RegisterCustomer(ctx, second)
	if err == nil {
		t.Fatal("second register succeeded, want duplicate_username")
	}
	if apperr.Code(err) != "duplicate_username" {
		t.Errorf("code = %q, want duplicate_username", apperr.Code(err))
	}
}
