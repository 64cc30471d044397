package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/money"
)

// Terms are the inputs of a fixed-payment amortization schedule.
type Terms struct {
	Principal    decimal.Decimal
	InterestRate decimal.Decimal
	Frequency    Frequency
	Count        int
	StartDate    time.Time
}

// growthPlaces bounds the precision of (1+r)^n while it is accumulated.
const growthPlaces = 18

var one = decimal.NewFromInt(1)

// PeriodicRate divides the annual rate by the number of payment periods per year.
func PeriodicRate(annual decimal.Decimal, f Frequency) decimal.Decimal {
	periods := f.PeriodsPerYear()
	if periods == 0 {
		return decimal.Zero
	}

	return annual.Div(decimal.NewFromInt(int64(periods)))
}

// Payment returns the fixed per-period payment, rounded to cents:
// P·r·(1+r)^n / ((1+r)^n − 1), or P/n when r is zero.
func Payment(principal, rate decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}

	count := decimal.NewFromInt(int64(n))
	if !rate.IsPositive() {
		return money.Round(principal.Div(count))
	}

	base := one.Add(rate)
	growth := one

	for range n {
		growth = growth.Mul(base).Round(growthPlaces)
	}

	return money.Round(principal.Mul(rate).Mul(growth).Div(growth.Sub(one)))
}

// GenerateSchedule builds the installments for terms. Every amount is rounded to cents when it
// is computed, so the principal column may drift from the loan principal by a few cents.
// A non-positive Count yields no installments.
func GenerateSchedule(loanID uuid.UUID, terms Terms) []*Installment {
	if terms.Count <= 0 {
		return nil
	}

	rate := PeriodicRate(terms.InterestRate, terms.Frequency)
	payment := Payment(terms.Principal, rate, terms.Count)
	remaining := terms.Principal

	installments := make([]*Installment, 0, terms.Count)

	for i := 1; i <= terms.Count; i++ {
		interest := money.Round(remaining.Mul(rate))
		principal := money.Round(payment.Sub(interest))

		inst := &Installment{
			ID:              uuid.New(),
			LoanID:          loanID,
			Sequence:        i,
			DueDate:         terms.Frequency.DueDate(terms.StartDate, i),
			PrincipalAmount: principal,
			InterestAmount:  interest,
			FeesAmount:      decimal.Zero,
		}
		inst.TotalAmount = inst.Total()

		installments = append(installments, inst)
		remaining = remaining.Sub(principal)
	}

	return installments
}
