package portal

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/landbank/onboarding/gateway"
	"github.com/landbank/onboarding/store"
)

func newTestApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()
	db, err := store.OpenFromConfig("", filepath.Join(t.TempDir(), "landbank.db"), "sqlite")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	logger := logrus.New()
	logger.Out = io.Discard

	st := store.New(db, logger)
	svc := &Service{
		Store:    st,
		Logger:   logger,
		Sessions: gateway.NewSessionManager(nil),
	}
	app := fiber.New()
	app.Post("/register", svc.Register)
	app.Post("/login", svc.Login)
	app.Get("/logout", svc.Logout)
	return app, st
}

func registrationBody(email string) []byte {
	payload := map[string]any{
		"personal": map[string]any{
			"custname":      "Juan Dela Cruz",
			"datebirth":     "1990-04-12",
			"nationality":   "Filipino",
			"custsex":       "Male",
			"civilstatus":   "Single",
			"cust_address":  "123 Rizal St",
			"email_address": email,
			"contact_no":    "09171234567",
		},
		"employment": map[string]any{
			"occupation": "Unemployed",
		},
	}
	body, _ := json.Marshal(payload)
	return body
}

func postJSON(t *testing.T, app *fiber.App, path string, body []byte) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)
	return resp, decoded
}

func TestRegisterHandler(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := postJSON(t, app, "/register", registrationBody("juan@example.com"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %v", resp.StatusCode, body)
	}
	if body["cust_no"] != "C001" {
		t.Errorf("cust_no = %v, want C001", body["cust_no"])
	}
	if body["message"] != "Customer successfully registered!" {
		t.Errorf("message = %v", body["message"])
	}

	// Same email again: conflict, with the taxonomy code in the body.
	resp, body = postJSON(t, app, "/register", registrationBody("juan@example.com"))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %v", resp.StatusCode, body)
	}
	if body["code"] != "duplicate_email" {
		t.Errorf("code = %v, want duplicate_email", body["code"])
	}
}

func TestRegisterHandlerValidation(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name string
		body []byte
	}{
		{"empty body", nil},
		{"malformed json", []byte("{")},
		{"missing required fields", []byte(`{"personal":{"custname":"Juan"},"employment":{}}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postJSON(t, app, "/register", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %v", resp.StatusCode, body)
			}
		})
	}
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp
}

func TestLoginBuiltinAdmin(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postForm(t, app, "/login", url.Values{
		"email":    {BuiltinAdminEmail},
		"password": {BuiltinAdminPassword},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/admin_dashboard" {
		t.Errorf("redirect = %q, want /admin_dashboard", loc)
	}
}

func TestLoginCustomerFlow(t *testing.T) {
	app, _ := newTestApp(t)

	if resp, body := postJSON(t, app, "/register", registrationBody("cust@example.com")); resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: %d %v", resp.StatusCode, body)
	}

	// Placeholder password is the customer code.
	resp := postForm(t, app, "/login", url.Values{
		"email":    {"cust@example.com"},
		"password": {"C001"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/home" {
		t.Errorf("redirect = %q, want /home", loc)
	}
}

func TestLoginFailureRedirectsHome(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postForm(t, app, "/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"nope"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("redirect = %q, want /", loc)
	}
}
