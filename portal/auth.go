package portal

import (
	"github.com/gofiber/fiber/v2"

	"github.com/landbank/onboarding/store"
)

// Built-in administrator credential, kept from the legacy system. It
// bypasses the database entirely and always grants the admin role.
// A real deployment should disable this and rely on the admins table.
const (
	BuiltinAdminEmail    = "landbankADMIN@gmail.com"
	BuiltinAdminPassword = "LandBank2025"
)

// Login handles the form login. The built-in admin pair wins before any
// database lookup; everything else resolves against stored credentials.
// All failures produce the same generic flash.
func (s *Service) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	if email == BuiltinAdminEmail && password == BuiltinAdminPassword {
		if err := s.Sessions.EstablishLogin(c, "", "Administrator", email, store.RoleAdmin); err != nil {
			return err
		}
		return c.Redirect("/admin_dashboard", fiber.StatusFound)
	}

	result, err := s.Store.Authenticate(c.UserContext(), email, password)
	if err != nil {
		_ = s.Sessions.AddFlash(c, "error", "Invalid login credentials")
		return c.Redirect("/", fiber.StatusFound)
	}

	if err := s.Sessions.EstablishLogin(c, result.Customer.CustNo, result.Customer.Custname, result.Username, result.Role); err != nil {
		return err
	}
	if result.Role == store.RoleAdmin {
		return c.Redirect("/admin_dashboard", fiber.StatusFound)
	}
	return c.Redirect("/home", fiber.StatusFound)
}

func (s *Service) Logout(c *fiber.Ctx) error {
	if err := s.Sessions.ClearLogin(c); err != nil {
		s.Logger.WithError(err).Warn("session destroy failed")
	}
	_ = s.Sessions.AddFlash(c, "info", "You have been logged out.")
	return c.Redirect("/", fiber.StatusFound)
}
