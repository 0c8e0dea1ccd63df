package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Errors returned by the repository.
var (
	ErrNotFound        = errors.New("Record not found")
	ErrInUse           = errors.New("Category is still used by tasks")
	ErrUnknownCategory = errors.New("Category does not exist")
)

const fkViolation = "23503"

// Repository stores task and category records per owner in Postgres.
type Repository struct {
	db *sql.DB
}

// New returns a Repository over db.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// mapErr translates driver errors into repository errors. fk is returned for
// foreign-key violations.
func mapErr(err, fk error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == fkViolation {
		return fk
	}
	return err
}
