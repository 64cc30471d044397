package errs_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/errs"
)

func TestKinds(t *testing.T) {
	id := uuid.MustParse("7b1d2a64-4a47-4bd4-9d3b-1a3c0e0f1b2c")

	tests := []struct {
		name    string
		err     error
		kind    error
		message string
	}{
		{
			name:    "NotFound",
			err:     errs.NotFound("account", id),
			kind:    errs.ErrNotFound,
			message: "account 7b1d2a64-4a47-4bd4-9d3b-1a3c0e0f1b2c not found",
		},
		{
			name:    "Validation",
			err:     errs.Invalid("amount", "must be positive"),
			kind:    errs.ErrValidation,
			message: "invalid amount: must be positive",
		},
		{
			name:    "Storage",
			err:     errs.Storage("creating transaction", sql.ErrConnDone),
			kind:    errs.ErrStorage,
			message: "creating transaction: sql: connection is already closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service: %w", tt.err)

			assert.ErrorIs(t, wrapped, tt.kind)
			assert.EqualError(t, tt.err, tt.message)

			for _, other := range []error{errs.ErrNotFound, errs.ErrValidation, errs.ErrStorage} {
				if other == tt.kind {
					continue
				}

				assert.NotErrorIs(t, wrapped, other)
			}
		})
	}
}

func TestNotFound_As(t *testing.T) {
	id := uuid.New()
	err := fmt.Errorf("create: %w", errs.NotFound("account", id))

	var nf *errs.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "account", nf.Entity)
	assert.Equal(t, id, nf.ID)
}

func TestStorage(t *testing.T) {
	assert.NoError(t, errs.Storage("noop", nil))

	nf := errs.NotFound("loan", uuid.New())
	assert.Same(t, nf, errs.Storage("getting loan", nf))

	err := errs.Storage("committing", sql.ErrTxDone)
	assert.ErrorIs(t, err, sql.ErrTxDone)
}
