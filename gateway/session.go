// Package gateway carries the HTTP middleware: server-side sessions with
// flash messages, role guards, request IDs, request logging and
// prometheus instrumentation.
package gateway

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// Session keys. The names mirror the legacy application so templates and
// handlers read the same identifiers.
const (
	SessionKeyAdmin    = "admin"
	SessionKeyUser     = "user"
	SessionKeyCustNo   = "cust_no"
	SessionKeyUsername = "username"
	SessionKeyUserRole = "user_role"
	SessionKeyTotal    = "total_customers"
)

// SessionManager wraps fiber's session store with the login/role helpers
// the route guards use.
type SessionManager struct {
	store *session.Store
}

// NewSessionManager builds the session store. storage may be nil for the
// in-memory default; pass a RedisStorage to share sessions across
// processes.
func NewSessionManager(storage fiber.Storage) *SessionManager {
	cfg := session.Config{
		KeyLookup:      "cookie:landbank_session",
		Expiration:     12 * time.Hour,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}
	if storage != nil {
		cfg.Storage = storage
	}
	return &SessionManager{store: session.New(cfg)}
}

func (m *SessionManager) Get(c *fiber.Ctx) (*session.Session, error) {
	return m.store.Get(c)
}

// EstablishLogin records an authenticated identity on the session.
func (m *SessionManager) EstablishLogin(c *fiber.Ctx, custNo, name, username, role string) error {
	sess, err := m.Get(c)
	if err != nil {
		return err
	}
	sess.Set(SessionKeyCustNo, custNo)
	sess.Set(SessionKeyUser, name)
	sess.Set(SessionKeyUsername, username)
	sess.Set(SessionKeyUserRole, role)
	if role == "admin" {
		sess.Set(SessionKeyAdmin, "true")
	}
	return sess.Save()
}

// ClearLogin destroys the whole session.
func (m *SessionManager) ClearLogin(c *fiber.Ctx) error {
	sess, err := m.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

func (m *SessionManager) str(c *fiber.Ctx, key string) string {
	sess, err := m.Get(c)
	if err != nil {
		return ""
	}
	if v, ok := sess.Get(key).(string); ok {
		return v
	}
	return ""
}

func (m *SessionManager) Role(c *fiber.Ctx) string     { return m.str(c, SessionKeyUserRole) }
func (m *SessionManager) CustNo(c *fiber.Ctx) string   { return m.str(c, SessionKeyCustNo) }
func (m *SessionManager) Username(c *fiber.Ctx) string { return m.str(c, SessionKeyUsername) }
func (m *SessionManager) UserName(c *fiber.Ctx) string { return m.str(c, SessionKeyUser) }

func (m *SessionManager) IsAdmin(c *fiber.Ctx) bool {
	return m.str(c, SessionKeyAdmin) == "true" || m.Role(c) == "admin"
}

// RequireAdmin redirects to the landing page with a warning flash when
// the session carries no admin role. Authorization failures redirect
// rather than return an error status, matching the legacy behavior.
func (m *SessionManager) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.IsAdmin(c) {
			return c.Next()
		}
		_ = m.AddFlash(c, "warning", "Please log in as an administrator.")
		return c.Redirect("/", fiber.StatusFound)
	}
}

// RequireCustomer redirects to the landing page when no customer is
// logged in.
func (m *SessionManager) RequireCustomer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.str(c, SessionKeyUser) != "" || m.CustNo(c) != "" {
			return c.Next()
		}
		_ = m.AddFlash(c, "warning", "Please log in first.")
		return c.Redirect("/", fiber.StatusFound)
	}
}
