package dashboard

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/landbank/onboarding/apperr"
	"github.com/landbank/onboarding/gateway"
	"github.com/landbank/onboarding/kyc"
	"github.com/landbank/onboarding/store"
)

// Dashboard lists customers with optional search, status and
// registration-date filters.
func (s *Service) Dashboard(c *fiber.Ctx) error {
	filter := store.ListFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = t.Add(24 * time.Hour)
		}
	}

	customers, err := s.Store.ListCustomers(c.UserContext(), filter)
	if err != nil {
		s.Logger.WithError(err).Error("dashboard listing failed")
		_ = s.Sessions.AddFlash(c, "error", "Could not load customers.")
		customers = nil
	}

	total := "N/A"
	if sess, err := s.Sessions.Get(c); err == nil {
		if v, ok := sess.Get(gateway.SessionKeyTotal).(string); ok && v != "" {
			total = v
		}
	}

	return s.render(c, "admin_dashboard", fiber.Map{
		"Customers":      customers,
		"TotalCustomers": total,
		"Query":          filter.Query,
		"Status":         filter.Status,
		"From":           c.Query("from"),
		"To":             c.Query("to"),
	})
}

// CustomerList is the legacy flat listing page.
func (s *Service) CustomerList(c *fiber.Ctx) error {
	customers, err := s.Store.ListCustomers(c.UserContext(), store.ListFilter{})
	if err != nil {
		s.Logger.WithError(err).Error("customer list failed")
		_ = s.Sessions.AddFlash(c, "error", "Could not load customers.")
	}
	return s.render(c, "customer_list", fiber.Map{"Customers": customers})
}

// View shows one customer with every dependent record.
func (s *Service) View(c *fiber.Ctx) error {
	rec, err := s.Store.GetCustomer(c.UserContext(), c.Params("cust_no"))
	if err != nil {
		_ = s.Sessions.AddFlash(c, "error", apperr.Message(err))
		return c.Redirect("/admin_dashboard", fiber.StatusFound)
	}
	return s.render(c, "admin_view_customer", fiber.Map{"Record": rec})
}

// EditForm renders the edit form pre-filled with the current record.
func (s *Service) EditForm(c *fiber.Ctx) error {
	rec, err := s.Store.GetCustomer(c.UserContext(), c.Params("cust_no"))
	if err != nil {
		_ = s.Sessions.AddFlash(c, "error", apperr.Message(err))
		return c.Redirect("/admin_dashboard", fiber.StatusFound)
	}
	return s.render(c, "admin_edit_customer", fiber.Map{"Record": rec})
}

// Edit applies the submitted form as one transaction and logs the
// changed fields to the audit trail.
func (s *Service) Edit(c *fiber.Ctx) error {
	custNo := c.Params("cust_no")
	update := updateFromForm(c)

	changes, err := s.Store.UpdateCustomer(c.UserContext(), custNo, update)
	if err != nil {
		s.Logger.WithError(err).WithField("cust_no", custNo).Warn("customer update failed")
		_ = s.Sessions.AddFlash(c, "error", apperr.Message(err))
		return c.Redirect("/admin_dashboard", fiber.StatusFound)
	}

	s.Audit.RecordUpdate(custNo, changes)
	_ = s.Sessions.AddFlash(c, "success", "Customer record updated successfully!")
	return c.Redirect("/admin_dashboard", fiber.StatusFound)
}

// Delete removes the customer and cascaded records, then logs it.
func (s *Service) Delete(c *fiber.Ctx) error {
	custNo := c.Params("cust_no")
	notes, err := s.Store.DeleteCustomer(c.UserContext(), custNo)
	if err != nil {
		s.Logger.WithError(err).WithField("cust_no", custNo).Warn("customer delete failed")
		_ = s.Sessions.AddFlash(c, "error", apperr.Message(err))
		return c.Redirect("/admin_dashboard", fiber.StatusFound)
	}

	s.Audit.RecordDelete(custNo, notes)
	_ = s.Sessions.AddFlash(c, "success", fmt.Sprintf("Customer %s and related records deleted successfully!", custNo))
	return c.Redirect("/admin_dashboard", fiber.StatusFound)
}

// Compute counts customers and caches the total in the session for the
// dashboard header.
func (s *Service) Compute(c *fiber.Ctx) error {
	total, err := s.Store.CountCustomers(c.UserContext())
	if err != nil {
		s.Logger.WithError(err).Error("customer count failed")
		_ = s.Sessions.AddFlash(c, "error", "Could not compute customers.")
		return c.Redirect("/admin_dashboard", fiber.StatusFound)
	}
	if sess, err := s.Sessions.Get(c); err == nil {
		sess.Set(gateway.SessionKeyTotal, strconv.Itoa(total))
		_ = sess.Save()
	}
	_ = s.Sessions.AddFlash(c, "info", fmt.Sprintf("Total customers computed: %d", total))
	return c.Redirect("/admin_dashboard", fiber.StatusFound)
}

// Add registers a customer from the admin console; same transactional
// write as the public flow.
func (s *Service) Add(c *fiber.Ctx) error {
	var reg kyc.Registration
	if err := json.Unmarshal(c.Body(), &reg); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"code": "bad_request", "message": err.Error()})
	}
	if err := kyc.ValidateStruct(&reg); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"code": "validation_error", "message": err.Error()})
	}
	custNo, err := s.Store.RegisterCustomer(c.UserContext(), &reg)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(apperr.Payload(err))
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"cust_no": custNo})
}

// updateFromForm maps the edit form onto the update payload. The form
// posts the multi-valued children as repeated fields.
func updateFromForm(c *fiber.Ctx) *kyc.Update {
	numChildren, _ := strconv.Atoi(c.FormValue("num_children"))
	u := &kyc.Update{
		Registration: kyc.Registration{
			Personal: kyc.PersonalInfo{
				Custname:         c.FormValue("custname"),
				Datebirth:        c.FormValue("datebirth"),
				Nationality:      c.FormValue("nationality"),
				Citizenship:      c.FormValue("citizenship"),
				Custsex:          c.FormValue("custsex"),
				Placebirth:       c.FormValue("placebirth"),
				Civilstatus:      c.FormValue("civilstatus"),
				NumChildren:      numChildren,
				MmaidenName:      c.FormValue("mmaiden_name"),
				CustAddress:      c.FormValue("cust_address"),
				EmailAddress:     c.FormValue("email_address"),
				ContactNo:        c.FormValue("contact_no"),
				SpouseName:       c.FormValue("spouse_name"),
				SpouseBirthdate:  c.FormValue("spouse_birthdate"),
				SpouseProfession: c.FormValue("spouse_profession"),
			},
			Employment: kyc.EmploymentInfo{
				Occupation:     c.FormValue("occupation"),
				BusinessNature: c.FormValue("business_nature"),
				SourceOfWealth: c.FormValue("source_of_wealth"),
				MonthlyIncome:  c.FormValue("monthly_income"),
				AnnualIncome:   c.FormValue("annual_income"),
				EmpName:        c.FormValue("emp_name"),
				EmpAddress:     c.FormValue("emp_address"),
				TinNo:          c.FormValue("tin_no"),
				JobTitle:       c.FormValue("job_title"),
				DateEmployed:   c.FormValue("date_employed"),
			},
			Disclosure: kyc.DisclosureInfo{
				Roles:         formList(c, "roles"),
				Companies:     formList(c, "companies"),
				BankNames:     formList(c, "bank_names"),
				Branches:      formList(c, "branches"),
				AccountTypes:  formList(c, "account_types"),
				PoNames:       formList(c, "po_names"),
				PoPositions:   formList(c, "po_positions"),
				OrgNames:      formList(c, "org_names"),
				Relationships: formList(c, "relationships"),
			},
		},
		RegistrationStatus: c.FormValue("registration_status"),
	}
	return u
}

func formList(c *fiber.Ctx, key string) []string {
	values := c.Request().PostArgs().PeekMulti(key)
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}
