package gateway

import (
	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

const sessionKeyFlashes = "_flashes"

// Flash is a one-shot message queued on the session and consumed by the
// next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// AddFlash queues a flash message on the session.
func (m *SessionManager) AddFlash(c *fiber.Ctx, category, message string) error {
	sess, err := m.Get(c)
	if err != nil {
		return err
	}
	flashes := decodeFlashes(sess.Get(sessionKeyFlashes))
	flashes = append(flashes, Flash{Category: category, Message: message})
	payload, err := json.Marshal(flashes)
	if err != nil {
		return err
	}
	sess.Set(sessionKeyFlashes, string(payload))
	return sess.Save()
}

// PopFlashes drains and returns the queued flash messages.
func (m *SessionManager) PopFlashes(c *fiber.Ctx) []Flash {
	sess, err := m.Get(c)
	if err != nil {
		return nil
	}
	flashes := decodeFlashes(sess.Get(sessionKeyFlashes))
	if len(flashes) == 0 {
		return nil
	}
	sess.Delete(sessionKeyFlashes)
	_ = sess.Save()
	return flashes
}

func decodeFlashes(v interface{}) []Flash {
	raw, ok := v.(string)
	if !ok || raw == "" {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal([]byte(raw), &flashes); err != nil {
		return nil
	}
	return flashes
}
