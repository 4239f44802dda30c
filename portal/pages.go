package portal

import (
	"github.com/gofiber/fiber/v2"
)

// render wraps c.Render with the bind every page needs: queued flash
// messages and the logged-in identity.
func (s *Service) render(c *fiber.Ctx, name string, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}
	bind["Flashes"] = s.Sessions.PopFlashes(c)
	bind["User"] = s.Sessions.UserName(c)
	bind["IsAdmin"] = s.Sessions.IsAdmin(c)
	return c.Render(name, bind)
}

func (s *Service) LandingPage(c *fiber.Ctx) error {
	return s.render(c, "landing", nil)
}

func (s *Service) HomePage(c *fiber.Ctx) error {
	return s.render(c, "home", nil)
}

func (s *Service) AboutPage(c *fiber.Ctx) error {
	return s.render(c, "about", nil)
}

func (s *Service) ServicesPage(c *fiber.Ctx) error {
	return s.render(c, "services", nil)
}

func (s *Service) ContactPage(c *fiber.Ctx) error {
	return s.render(c, "contact", nil)
}

// The account-opening flow is three form steps; the browser accumulates
// the answers and submits the merged payload to POST /register.
func (s *Service) OpenAccountStep1(c *fiber.Ctx) error {
	return s.render(c, "open_acc_step1", nil)
}

func (s *Service) OpenAccountStep2(c *fiber.Ctx) error {
	return s.render(c, "open_acc_step2", nil)
}

func (s *Service) OpenAccountStep3(c *fiber.Ctx) error {
	return s.render(c, "open_acc_step3", nil)
}

// PrintSummary renders the printable application summary for a freshly
// registered customer.
func (s *Service) PrintSummary(c *fiber.Ctx) error {
	custNo := c.Query("cust_no")
	if custNo == "" {
		_ = s.Sessions.AddFlash(c, "error", "No application selected.")
		return c.Redirect("/openAcc", fiber.StatusFound)
	}
	rec, err := s.Store.GetCustomer(c.UserContext(), custNo)
	if err != nil {
		_ = s.Sessions.AddFlash(c, "error", "Your record was not found.")
		return c.Redirect("/openAcc", fiber.StatusFound)
	}
	return s.render(c, "open_acc_print", fiber.Map{"Record": rec})
}

// MyRecord shows the logged-in customer their own record.
func (s *Service) MyRecord(c *fiber.Ctx) error {
	custNo := s.Sessions.CustNo(c)
	if custNo == "" {
		_ = s.Sessions.AddFlash(c, "error", "Your record was not found.")
		return c.Redirect("/home", fiber.StatusFound)
	}
	rec, err := s.Store.GetCustomer(c.UserContext(), custNo)
	if err != nil {
		s.Logger.WithError(err).WithField("cust_no", custNo).Warn("my_record lookup failed")
		_ = s.Sessions.AddFlash(c, "error", "Your record was not found.")
		return c.Redirect("/home", fiber.StatusFound)
	}
	return s.render(c, "my_record", fiber.Map{"Record": rec})
}
