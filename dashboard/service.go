// Package dashboard serves the admin console: customer listing with
// filters, detail view, add, edit and delete, with every destructive
// action appended to the admin audit log.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/landbank/onboarding/gateway"
	"github.com/landbank/onboarding/store"
)

type Service struct {
	Store    *store.Store
	Logger   *logrus.Logger
	Sessions *gateway.SessionManager
	Audit    *AuditLog
}

func (s *Service) render(c *fiber.Ctx, name string, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}
	bind["Flashes"] = s.Sessions.PopFlashes(c)
	bind["User"] = s.Sessions.UserName(c)
	bind["IsAdmin"] = true
	return c.Render(name, bind)
}
