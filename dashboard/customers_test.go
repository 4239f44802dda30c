package dashboard

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/landbank/onboarding/gateway"
	"github.com/landbank/onboarding/kyc"
	"github.com/landbank/onboarding/store"
)

func newTestService(t *testing.T) (*Service, *fiber.App) {
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

	svc := &Service{
		Store:    store.New(db, logger),
		Logger:   logger,
		Sessions: gateway.NewSessionManager(nil),
		Audit:    NewAuditLog(filepath.Join(t.TempDir(), "admin_logs.txt"), logger),
	}
	// Guards are exercised in the gateway tests; these routes go bare so
	// the handlers themselves are under test.
	app := fiber.New()
	app.Post("/admin/edit/:cust_no", svc.Edit)
	app.Post("/admin/delete/:cust_no", svc.Delete)
	app.Post("/admin/add", svc.Add)
	app.Post("/compute_customers", svc.Compute)
	return svc, app
}

func seedCustomer(t *testing.T, svc *Service, email string) string {
	t.Helper()
	custNo, err := svc.Store.RegisterCustomer(context.Background(), &kyc.Registration{
		Personal: kyc.PersonalInfo{
			Custname:     "Juan Dela Cruz",
			Datebirth:    "1990-04-12",
			Nationality:  "Filipino",
			Custsex:      "Male",
			Civilstatus:  "Single",
			CustAddress:  "123 Rizal St",
			EmailAddress: email,
			ContactNo:    "09171234567",
		},
		Employment: kyc.EmploymentInfo{Occupation: "Unemployed"},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return custNo
}

func TestEditHandlerUpdatesAndAudits(t *testing.T) {
	svc, app := newTestService(t)
	custNo := seedCustomer(t, svc, "edit@example.com")

	form := url.Values{
		"custname":            {"Juan D. Cruz"},
		"datebirth":           {"1990-04-12"},
		"nationality":         {"Filipino"},
		"custsex":             {"Male"},
		"civilstatus":         {"Single"},
		"num_children":        {"0"},
		"cust_address":        {"123 Rizal St"},
		"email_address":       {"edit@example.com"},
		"contact_no":          {"09171234567"},
		"registration_status": {"Active"},
		"occupation":          {"Unemployed"},
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/edit/"+custNo, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}

	rec, err := svc.Store.GetCustomer(context.Background(), custNo)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Customer.Custname != "Juan D. Cruz" {
		t.Errorf("custname = %q", rec.Customer.Custname)
	}
	if rec.Customer.RegistrationStatus != "Active" {
		t.Errorf("status = %q, want Active", rec.Customer.RegistrationStatus)
	}

	audit, err := os.ReadFile(svc.Audit.Path)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !strings.Contains(string(audit), "ADMIN UPDATED: "+custNo) {
		t.Errorf("audit log missing update entry:\n%s", audit)
	}
	if !strings.Contains(string(audit), "custname: 'Juan Dela Cruz' -> 'Juan D. Cruz'") {
		t.Errorf("audit log missing field diff:\n%s", audit)
	}
}

func TestDeleteHandlerRemovesAndAudits(t *testing.T) {
	svc, app := newTestService(t)
	custNo := seedCustomer(t, svc, "gone@example.com")

	req := httptest.NewRequest(http.MethodPost, "/admin/delete/"+custNo, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}

	if _, err := svc.Store.GetCustomer(context.Background(), custNo); err == nil {
		t.Error("customer still present after delete")
	}
	audit, err := os.ReadFile(svc.Audit.Path)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !strings.Contains(string(audit), "ADMIN DELETED: "+custNo) {
		t.Errorf("audit log missing delete entry:\n%s", audit)
	}
}

func TestAddHandlerRegistersFromJSON(t *testing.T) {
	_, app := newTestService(t)

	payload, _ := json.Marshal(map[string]any{
		"personal": map[string]any{
			"custname":      "Maria Santos",
			"datebirth":     "1985-02-02",
			"nationality":   "Filipino",
			"custsex":       "Female",
			"civilstatus":   "Single",
			"cust_address":  "9 Mabini St",
			"email_address": "maria@example.com",
			"contact_no":    "0918",
		},
		"employment": map[string]any{"occupation": "Self-Employed"},
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/add", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want 201: %s", resp.StatusCode, raw)
	}
	var body map[string]any
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &body)
	if body["cust_no"] != "C001" {
		t.Errorf("cust_no = %v, want C001", body["cust_no"])
	}
}

func TestComputeRedirects(t *testing.T) {
	svc, app := newTestService(t)
	seedCustomer(t, svc, "count@example.com")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/compute_customers", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/admin_dashboard" {
		t.Errorf("redirect = %q, want /admin_dashboard", loc)
	}
}
