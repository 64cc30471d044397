// Package money holds the currency enum and the decimal helpers shared by the ledger and loans.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/errs"
)

// Currency is stored per entity and never converted.
type Currency string

const (
	USD Currency = "USD"
	ARS Currency = "ARS"
)

func (c Currency) Valid() bool {
	switch c {
	case USD, ARS:
		return true
	default:
		return false
	}
}

// Places is the number of decimal places every computed currency amount is rounded to.
const Places = 2

// Round rounds d to Places decimal places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// ParseAmount parses a decimal string. NaN and infinities are rejected by the decimal parser itself.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errs.Invalid(field, "not a decimal number")
	}

	return d, nil
}

// RequirePositive rejects zero and negative amounts.
func RequirePositive(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return errs.Invalid(field, "must be greater than zero")
	}

	return nil
}

// Format renders d with the currency's symbol and fraction, e.g. "$1,200.50".
func Format(d decimal.Decimal, c Currency) string {
	cur := *gomoney.New(0, string(c)).Currency()
	minor := d.Shift(int32(cur.Fraction)).Round(0)

	return cur.Formatter().Format(minor.IntPart())
}
