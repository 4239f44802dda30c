// Package portal serves the public and customer-facing surface: the
// marketing pages, the multi-step account-opening flow, login/logout and
// the customer's own record view.
package portal

import (
	"github.com/landbank/onboarding/gateway"
	"github.com/landbank/onboarding/store"
	"github.com/sirupsen/logrus"
)

type Service struct {
	Store    *store.Store
	Logger   *logrus.Logger
	Sessions *gateway.SessionManager
	Debug    bool
}
