package kyc

import "strings"

// Registration is the account-opening payload. The public flow collects
// it over three steps and submits the merged document as JSON.
type Registration struct {
	Personal   PersonalInfo   `json:"personal" validate:"required"`
	Employment EmploymentInfo `json:"employment" validate:"required"`
	Disclosure DisclosureInfo `json:"disclosure"`
}

// PersonalInfo is step one: identity, contact and spousal details.
type PersonalInfo struct {
	Custname         string `json:"custname" validate:"required"`
	Datebirth        string `json:"datebirth" validate:"required"`
	Nationality      string `json:"nationality" validate:"required"`
	Citizenship      string `json:"citizenship"`
	Custsex          string `json:"custsex" validate:"required"`
	Placebirth       string `json:"placebirth"`
	Civilstatus      string `json:"civilstatus" validate:"required"`
	NumChildren      int    `json:"num_children" validate:"min=0"`
	MmaidenName      string `json:"mmaiden_name"`
	CustAddress      string `json:"cust_address" validate:"required"`
	EmailAddress     string `json:"email_address" validate:"required,email"`
	ContactNo        string `json:"contact_no" validate:"required"`
	Username         string `json:"username"`
	SpouseName       string `json:"spouse_name"`
	SpouseBirthdate  string `json:"spouse_birthdate"`
	SpouseProfession string `json:"spouse_profession"`
}

// EmploymentInfo is step two: occupation, employer and financial standing.
type EmploymentInfo struct {
	Occupation     string `json:"occupation" validate:"required"`
	BusinessNature string `json:"business_nature"`
	SourceOfWealth string `json:"source_of_wealth"`
	MonthlyIncome  string `json:"monthly_income"`
	AnnualIncome   string `json:"annual_income"`
	EmpName        string `json:"emp_name"`
	EmpAddress     string `json:"emp_address"`
	TinNo          string `json:"tin_no"`
	JobTitle       string `json:"job_title"`
	DateEmployed   string `json:"date_employed"`
}

// DisclosureInfo is step three. The form posts parallel lists; entries are
// zipped by index and rows missing a required field are skipped.
type DisclosureInfo struct {
	Roles         []string `json:"roles"`
	Companies     []string `json:"companies"`
	BankNames     []string `json:"bank_names"`
	Branches      []string `json:"branches"`
	AccountTypes  []string `json:"account_types"`
	PoNames       []string `json:"po_names"`
	PoPositions   []string `json:"po_positions"`
	OrgNames      []string `json:"org_names"`
	Relationships []string `json:"relationships"`
}

// Married reports whether a spouse row should be created: civil status is
// Married and all three spouse fields are present.
func (r *Registration) Married() bool {
	p := r.Personal
	return strings.EqualFold(p.Civilstatus, CivilStatusMarried) &&
		p.SpouseName != "" && p.SpouseBirthdate != "" && p.SpouseProfession != ""
}

// Employed reports whether employer rows should be created.
func (r *Registration) Employed() bool {
	return strings.EqualFold(r.Employment.Occupation, OccupationEmployed)
}

// LoginUsername is the credential username: the submitted one, or the
// email address when none was chosen.
func (r *Registration) LoginUsername() string {
	if u := strings.TrimSpace(r.Personal.Username); u != "" {
		return strings.ToLower(u)
	}
	return strings.ToLower(r.Personal.EmailAddress)
}

func at(list []string, i int) string {
	if i < len(list) {
		return strings.TrimSpace(list[i])
	}
	return ""
}

// Affiliations zips roles with company names, skipping entries missing
// either field.
func (d DisclosureInfo) Affiliations() []CompanyAffiliation {
	n := len(d.Roles)
	if len(d.Companies) > n {
		n = len(d.Companies)
	}
	var out []CompanyAffiliation
	for i := 0; i < n; i++ {
		role, company := at(d.Roles, i), at(d.Companies, i)
		if role == "" || company == "" {
			continue
		}
		out = append(out, CompanyAffiliation{Role: role, CompanyName: company})
	}
	return out
}

// BankEntries zips bank names, branches and account types. Name and branch
// are required; account type falls through as submitted.
func (d DisclosureInfo) BankEntries() []ExistingBank {
	n := len(d.BankNames)
	if len(d.Branches) > n {
		n = len(d.Branches)
	}
	var out []ExistingBank
	for i := 0; i < n; i++ {
		name, branch := at(d.BankNames, i), at(d.Branches, i)
		if name == "" || branch == "" {
			continue
		}
		out = append(out, ExistingBank{BankName: name, Branch: branch, AccountType: at(d.AccountTypes, i)})
	}
	return out
}

// Officials zips the PEP disclosure lists. Name, position, organization
// and relationship are all required.
func (d DisclosureInfo) Officials() []PORelationship {
	n := len(d.PoNames)
	if len(d.PoPositions) > n {
		n = len(d.PoPositions)
	}
	var out []PORelationship
	for i := 0; i < n; i++ {
		name, position := at(d.PoNames, i), at(d.PoPositions, i)
		org, rel := at(d.OrgNames, i), at(d.Relationships, i)
		if name == "" || position == "" || org == "" || rel == "" {
			continue
		}
		out = append(out, PORelationship{PoName: name, PoPosition: position, OrgName: org, Relationship: rel})
	}
	return out
}
