package portal

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/landbank/onboarding/apperr"
	"github.com/landbank/onboarding/kyc"
)

// Register accepts the merged three-step account-opening payload as JSON
// and runs the registration transaction. Integrity violations map to
// specific conflict responses; anything else is a rolled-back 500.
func (s *Service) Register(c *fiber.Ctx) error {
	var reg kyc.Registration
	if err := bindJSON(c, &reg); err != nil {
		s.Logger.WithError(err).Info("rejected registration payload")
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"code":    "validation_error",
			"message": err.Error(),
		})
	}

	custNo, err := s.Store.RegisterCustomer(c.UserContext(), &reg)
	if err != nil {
		s.Logger.WithError(err).WithField("email", reg.Personal.EmailAddress).Warn("registration failed")
		return c.Status(apperr.Status(err)).JSON(apperr.Payload(err))
	}

	s.Logger.WithFields(map[string]interface{}{
		"cust_no": custNo,
		"email":   reg.Personal.EmailAddress,
	}).Info("customer registered")

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"cust_no":  custNo,
		"username": reg.LoginUsername(),
		"status":   kyc.StatusPending,
		"message":  "Customer successfully registered!",
	})
}
