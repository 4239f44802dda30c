package store

import (
	"context"
	"testing"
	"time"

	"github.com/landbank/onboarding/kyc"
)

func TestListCustomersFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.RegisterCustomer(ctx, singleUnemployed("alpha@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	second, err := s.RegisterCustomer(ctx, singleUnemployed("beta@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	reg := singleUnemployed("beta2@example.com")
	reg.Personal.Custname = "Beatriz Reyes"
	if _, err := s.RegisterCustomer(ctx, reg); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := s.UpdateCustomer(ctx, second, &kyc.Update{
		Registration:       *singleUnemployed("beta@example.com"),
		RegistrationStatus: kyc.StatusActive,
	}); err != nil {
		t.Fatalf("activate: %v", err)
	}

	t.Run("no filter returns everyone", func(t *testing.T) {
		got, err := s.ListCustomers(ctx, ListFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("customers = %d, want 3", len(got))
		}
	})

	t.Run("query matches name case-insensitively", func(t *testing.T) {
		got, err := s.ListCustomers(ctx, ListFilter{Query: "beatriz"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].Custname != "Beatriz Reyes" {
			t.Errorf("customers = %+v", got)
		}
	})

	t.Run("query matches customer code", func(t *testing.T) {
		got, err := s.ListCustomers(ctx, ListFilter{Query: first})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].CustNo != first {
			t.Errorf("customers = %+v", got)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		got, err := s.ListCustomers(ctx, ListFilter{Status: kyc.StatusActive})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].CustNo != second {
			t.Errorf("customers = %+v", got)
		}
	})

	t.Run("date window excludes everything in the past", func(t *testing.T) {
		got, err := s.ListCustomers(ctx, ListFilter{From: time.Now().Add(time.Hour)})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("customers = %+v, want none", got)
		}
	})
}

func TestCountCustomers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if n, err := s.CountCustomers(ctx); err != nil || n != 0 {
		t.Fatalf("count = %d (%v), want 0", n, err)
	}
	if _, err := s.RegisterCustomer(ctx, singleUnemployed("c1@example.com")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := s.RegisterCustomer(ctx, singleUnemployed("c2@example.com")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if n, err := s.CountCustomers(ctx); err != nil || n != 2 {
		t.Errorf("count = %d (%v), want 2", n, err)
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetCustomer(context.Background(), "C404"); err == nil {
		t.Error("want error for missing customer")
	}
}
