package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/landbank/onboarding/apperr"
	"github.com/landbank/onboarding/kyc"
)

// Roles carried in the session after login.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// LoginResult is the authenticated identity a successful login yields.
type LoginResult struct {
	Customer kyc.Customer
	Username string
	Role     string
}

// Authenticate resolves a login by credential username or customer email
// and compares the stored plaintext password. Unknown user and wrong
// password both return ErrInvalidLogin so the two are indistinguishable
// to the caller.
func (s *Store) Authenticate(ctx context.Context, login, password string) (*LoginResult, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(login))

	var row struct {
		kyc.Customer
		Username string
		Password string
	}
	err = db.GetContext(ctx, &row, db.Rebind(`SELECT c.*, cr.username, cr.password
		FROM credentials cr JOIN customers c ON c.cust_no = cr.cust_no
		WHERE cr.username = ? OR c.email_address = ?
		LIMIT 1`), q, q)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Wrap(err, apperr.ErrInvalidLogin, "")
		}
		return nil, translateError(err)
	}
	// Plaintext comparison, preserved from the legacy system. The
	// placeholder password handed out at registration is the customer
	// code. TODO: bcrypt once stored passwords are migrated.
	if row.Password != password {
		return nil, apperr.ErrInvalidLogin
	}

	role := RoleCustomer
	isAdmin, err := s.IsAdmin(ctx, row.Username)
	if err != nil {
		return nil, err
	}
	if isAdmin {
		role = RoleAdmin
	}
	return &LoginResult{Customer: row.Customer, Username: row.Username, Role: role}, nil
}

// IsAdmin reports whether the username exists in the admins lookup table.
func (s *Store) IsAdmin(ctx context.Context, username string) (bool, error) {
	db, err := s.ensureDB()
	if err != nil {
		return false, err
	}
	var n int
	if err := db.GetContext(ctx, &n, db.Rebind(
		"SELECT COUNT(*) FROM admins WHERE username = ?"), strings.ToLower(username)); err != nil {
		return false, translateError(err)
	}
	return n > 0, nil
}

// EnsureAdmin inserts a username into the admins lookup, ignoring
// duplicates.
func (s *Store) EnsureAdmin(ctx context.Context, username string) error {
	db, err := s.ensureDB()
	if err != nil {
		return err
	}
	var stmt string
	if s.DB.Driver == DriverSQLite {
		stmt = "INSERT OR IGNORE INTO admins (username) VALUES (?)"
	} else {
		stmt = "INSERT INTO admins (username) VALUES (?) ON CONFLICT (username) DO NOTHING"
	}
	_, err = db.ExecContext(ctx, db.Rebind(stmt), strings.ToLower(username))
	return translateError(err)
}
