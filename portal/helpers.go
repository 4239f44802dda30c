package portal

import (
	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/landbank/onboarding/kyc"
)

func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if len(c.Body()) == 0 {
		return fiber.ErrBadRequest
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return err
	}
	return kyc.ValidateStruct(dst)
}
