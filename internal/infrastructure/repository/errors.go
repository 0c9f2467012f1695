package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/spareshop-api/pkg/apperror"
)

// PostgreSQL error codes the service reacts to
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
	pgForeignKeyViolation  = "23503"
)

// translateError maps driver errors to application errors. Business errors
// and unknown errors pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable, pgQueryCanceled:
		return apperror.ErrConcurrencyConflict
	case pgUniqueViolation:
		return apperror.NewConflictError("A record with the same unique value already exists")
	case pgCheckViolation:
		if pgErr.ConstraintName == "chk_products_quantity_in_stock" {
			return apperror.ErrInsufficientStock
		}
		return apperror.NewFieldError(pgErr.ColumnName, "violates constraint "+pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return apperror.NewBadRequestError("Referenced record does not exist")
	}
	return err
}
