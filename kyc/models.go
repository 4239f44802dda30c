// Package kyc holds the customer-onboarding domain types: the customer
// master record, its dependent disclosure records and the registration
// payload submitted by the public account-opening flow.
package kyc

import "time"

// Registration status values carried on the customer row.
const (
	StatusPending  = "Pending"
	StatusActive   = "Active"
	StatusRejected = "Rejected"
)

// Civil status and occupation values that drive conditional child rows.
const (
	CivilStatusMarried = "Married"
	OccupationEmployed = "Employed"
)

// Customer is the master record. Column names keep the legacy schema
// spelling (custname, datebirth, mmaiden_name) so existing reports keep
// working against the same tables.
type Customer struct {
	CustNo             string    `json:"cust_no"`
	Custname           string    `json:"custname"`
	Datebirth          string    `json:"datebirth"`
	Nationality        string    `json:"nationality"`
	Citizenship        string    `json:"citizenship"`
	Custsex            string    `json:"custsex"`
	Placebirth         string    `json:"placebirth"`
	Civilstatus        string    `json:"civilstatus"`
	NumChildren        int       `json:"num_children"`
	MmaidenName        string    `json:"mmaiden_name"`
	CustAddress        string    `json:"cust_address"`
	EmailAddress       string    `json:"email_address"`
	ContactNo          string    `json:"contact_no"`
	RegistrationStatus string    `json:"registration_status"`
	OccID              string    `json:"occ_id"`
	FinCode            string    `json:"fin_code"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type Occupation struct {
	OccID          string `json:"occ_id"`
	Occupation     string `json:"occupation"`
	BusinessNature string `json:"business_nature"`
}

type FinancialRecord struct {
	FinCode        string `json:"fin_code"`
	SourceOfWealth string `json:"source_of_wealth"`
	MonthlyIncome  string `json:"monthly_income"`
	AnnualIncome   string `json:"annual_income"`
}

// Spouse exists only while the customer's civil status is Married and all
// three fields were supplied. One row per customer at most.
type Spouse struct {
	CustNo           string `json:"cust_no"`
	SpouseName       string `json:"spouse_name"`
	SpouseBirthdate  string `json:"spouse_birthdate"`
	SpouseProfession string `json:"spouse_profession"`
}

func (s Spouse) Complete() bool {
	return s.SpouseName != "" && s.SpouseBirthdate != "" && s.SpouseProfession != ""
}

// Employer exists only for customers whose occupation type is Employed,
// linked through the employment_details join table.
type Employer struct {
	EmpID        string `json:"emp_id"`
	EmpName      string `json:"emp_name"`
	EmpAddress   string `json:"emp_address"`
	TinNo        string `json:"tin_no"`
	JobTitle     string `json:"job_title"`
	DateEmployed string `json:"date_employed"`
}

type CompanyAffiliation struct {
	CustNo      string `json:"cust_no"`
	Role        string `json:"role"`
	CompanyName string `json:"company_name"`
}

// Bank is a deduplicated lookup row keyed by (bank_name, branch).
type Bank struct {
	BankCode string `json:"bank_code"`
	BankName string `json:"bank_name"`
	Branch   string `json:"branch"`
}

type ExistingBank struct {
	CustNo      string `json:"cust_no"`
	BankCode    string `json:"bank_code"`
	BankName    string `json:"bank_name"`
	Branch      string `json:"branch"`
	AccountType string `json:"account_type"`
}

// PublicOfficial is a deduplicated PEP lookup row keyed by
// (po_name, po_position, org_name).
type PublicOfficial struct {
	GovID      string `json:"gov_id"`
	PoName     string `json:"po_name"`
	PoPosition string `json:"po_position"`
	OrgName    string `json:"org_name"`
}

type PORelationship struct {
	CustNo       string `json:"cust_no"`
	GovID        string `json:"gov_id"`
	PoName       string `json:"po_name"`
	PoPosition   string `json:"po_position"`
	OrgName      string `json:"org_name"`
	Relationship string `json:"relationship"`
}

// Credential stores the login pair for a customer. Passwords are kept in
// plaintext to match the placeholder-credential contract the registration
// flow established. TODO: migrate stored passwords to bcrypt once the
// placeholder-password contract is retired.
type Credential struct {
	CustNo   string `json:"cust_no"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// Record aggregates a customer with every dependent row, the shape the
// admin view and the customer's own profile page render.
type Record struct {
	Customer     Customer             `json:"customer"`
	Occupation   Occupation           `json:"occupation"`
	Financial    FinancialRecord      `json:"financial"`
	Spouse       *Spouse              `json:"spouse,omitempty"`
	Employer     *Employer            `json:"employer,omitempty"`
	Affiliations []CompanyAffiliation `json:"affiliations"`
	Banks        []ExistingBank       `json:"banks"`
	Officials    []PORelationship     `json:"officials"`
	Username     string               `json:"username,omitempty"`
}
