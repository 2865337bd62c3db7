// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return wrapCause(apperr.Conflict("Record already exists"), err)
		case pgerrcode.ForeignKeyViolation:
			return wrapCause(apperr.Conflict("Record is referenced by or references a missing record"), err)
		case pgerrcode.InvalidTextRepresentation, pgerrcode.NumericValueOutOfRange:
			return wrapCause(apperr.ValidationError("Invalid value for "+action), err)
		}
	}

	return apperr.Internal(err)
}

func wrapCause(ae *apperr.AppError, cause error) *apperr.AppError {
	ae.Cause = cause
	return ae
}
