package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/landbank/onboarding/kyc"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenFromConfig("", filepath.Join(t.TempDir(), "landbank.db"), "sqlite")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	logger := logrus.New()
	logger.Out = io.Discard
	return New(db, logger)
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	if err := s.DB.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// singleUnemployed is the minimal registration: no spouse, no employer,
// no disclosures.
func singleUnemployed(email string) *kyc.Registration {
	return &kyc.Registration{
		Personal: kyc.PersonalInfo{
			Custname:     "Juan Dela Cruz",
			Datebirth:    "1990-04-12",
			Nationality:  "Filipino",
			Custsex:      "Male",
			Civilstatus:  "Single",
			CustAddress:  "123 Rizal St",
			EmailAddress: email,
			ContactNo:    "09171234567",
		},
		Employment: kyc.EmploymentInfo{
			Occupation:     "Unemployed",
			SourceOfWealth: "Savings",
			MonthlyIncome:  "0",
			AnnualIncome:   "0",
		},
	}
}

func marriedEmployed(email string) *kyc.Registration {
	reg := singleUnemployed(email)
	reg.Personal.Civilstatus = "Married"
	reg.Personal.SpouseName = "Maria Dela Cruz"
	reg.Personal.SpouseBirthdate = "1991-08-20"
	reg.Personal.SpouseProfession = "Accountant"
	reg.Employment = kyc.EmploymentInfo{
		Occupation:     "Employed",
		BusinessNature: "Retail",
		SourceOfWealth: "Salary",
		MonthlyIncome:  "45000",
		AnnualIncome:   "540000",
		EmpName:        "Acme Trading Corp",
		EmpAddress:     "456 Bonifacio Ave",
		TinNo:          "123-456-789",
		JobTitle:       "Clerk",
		DateEmployed:   "2018-06-01",
	}
	return reg
}
