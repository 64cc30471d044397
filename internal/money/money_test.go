package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/errs"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

func TestCurrency_Valid(t *testing.T) {
	assert.True(t, money.USD.Valid())
	assert.True(t, money.ARS.Valid())
	assert.False(t, money.Currency("EUR").Valid())
	assert.False(t, money.Currency("").Valid())
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"106.6185", "106.62"},
		{"12.004", "12"},
		{"0.005", "0.01"},
		{"-0.005", "-0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := money.Round(decimal.RequireFromString(tt.in))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	d, err := money.ParseAmount("amount", "200.50")
	require.NoError(t, err)
	assert.Equal(t, "200.5", d.String())

	for _, bad := range []string{"", "abc", "NaN", "Inf", "1e"} {
		_, err := money.ParseAmount("amount", bad)
		assert.ErrorIs(t, err, errs.ErrValidation, bad)
	}
}

func TestRequirePositive(t *testing.T) {
	assert.NoError(t, money.RequirePositive("amount", decimal.NewFromInt(1)))
	assert.ErrorIs(t, money.RequirePositive("amount", decimal.Zero), errs.ErrValidation)
	assert.ErrorIs(t, money.RequirePositive("amount", decimal.NewFromInt(-3)), errs.ErrValidation)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1,200.50", money.Format(decimal.RequireFromString("1200.5"), money.USD))
	assert.Equal(t, "$0.01", money.Format(decimal.RequireFromString("0.005"), money.USD))
}
