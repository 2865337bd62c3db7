// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no_rows", pgx.ErrNoRows, "NOT_FOUND"},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), "NOT_FOUND"},
		{"fk_violation", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, "CONFLICT"},
		{"bad_uuid_text", &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, "VALIDATION_ERROR"},
		{"unknown", errors.New("boom"), "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := apperr.As(dberr.Wrap(tt.err, "update_book"))
			if assert.NotNil(t, ae) {
				assert.Equal(t, tt.code, ae.Code)
			}
		})
	}
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "get_author"))
}
