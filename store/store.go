package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// Store provides manual-SQL data access for the onboarding schema.
type Store struct {
	DB     *DB
	Logger *logrus.Logger
}

func New(db *DB, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{DB: db, Logger: logger}
}

func (s *Store) ensureDB() (*sqlx.DB, error) {
	if s == nil || s.DB == nil || s.DB.DB == nil {
		return nil, fmt.Errorf("nil db")
	}
	return s.DB.DB, nil
}

// withTx runs fn inside a transaction. Any error rolls the whole unit
// back and is translated into the application error taxonomy.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	db, err := s.ensureDB()
	if err != nil {
		return err
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return translateError(err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.Logger.WithError(rbErr).Warn("rollback failed")
		}
		return translateError(err)
	}
	return translateError(tx.Commit())
}

func (s *Store) rebind(query string) string {
	return s.DB.Rebind(query)
}
