// Package pgerr maps driver errors onto the common sentinel errors so that
// services never inspect PostgreSQL error codes themselves.
package pgerr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tourgo/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

// Wrap turns sql.ErrNoRows into common.ErrNotFound, unique violations into
// common.ErrConflict and malformed values such as a non-UUID id into
// common.ErrValidation. Everything else is wrapped as a db error.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrConflict, pgErr.ConstraintName)
		case invalidTextRepresentation:
			return fmt.Errorf("%w: %s", common.ErrValidation, pgErr.Message)
		}
	}
	return fmt.Errorf("db error: %w", err)
}
