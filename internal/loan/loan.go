package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/money"
)

type Frequency string

const (
	Weekly    Frequency = "Weekly"
	Biweekly  Frequency = "Biweekly"
	Monthly   Frequency = "Monthly"
	Quarterly Frequency = "Quarterly"
	Yearly    Frequency = "Yearly"
)

// PeriodsPerYear is the divisor that turns an annual rate into a periodic one.
// It returns 0 for unknown frequencies.
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case Weekly:
		return 52
	case Biweekly:
		return 26
	case Monthly:
		return 12
	case Quarterly:
		return 4
	case Yearly:
		return 1
	default:
		return 0
	}
}

func (f Frequency) Valid() bool { return f.PeriodsPerYear() > 0 }

// DueDate returns the date n periods after start. Month-based frequencies count whole months
// from start and clamp to the last day of shorter months, so Jan 31 is followed by Feb 28.
func (f Frequency) DueDate(start time.Time, n int) time.Time {
	switch f {
	case Weekly:
		return start.AddDate(0, 0, 7*n)
	case Biweekly:
		return start.AddDate(0, 0, 14*n)
	case Monthly:
		return addMonths(start, n)
	case Quarterly:
		return addMonths(start, 3*n)
	case Yearly:
		return addMonths(start, 12*n)
	default:
		return start
	}
}

func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()

	return time.Date(first.Year(), first.Month(), min(d, last), 0, 0, 0, 0, t.Location())
}

type Status string

const (
	StatusActive    Status = "Active"
	StatusClosed    Status = "Closed"
	StatusDefaulted Status = "Defaulted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusClosed, StatusDefaulted:
		return true
	default:
		return false
	}
}

type Loan struct {
	ID                uuid.UUID
	BorrowerAccountID uuid.UUID
	LenderAccountID   *uuid.UUID
	Principal         decimal.Decimal
	Currency          money.Currency
	InterestRate      decimal.Decimal // annual, fractional: 0.35 is 35%
	StartDate         time.Time
	EndDate           *time.Time
	TermMonths        *int
	InstallmentCount  *int
	PaymentFrequency  Frequency
	Status            Status
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Installment is one scheduled payment of a loan. Only MarkInstallmentAsPaid changes it.
type Installment struct {
	ID               uuid.UUID
	LoanID           uuid.UUID
	Sequence         int
	DueDate          time.Time
	PrincipalAmount  decimal.Decimal
	InterestAmount   decimal.Decimal
	FeesAmount       decimal.Decimal
	TotalAmount      decimal.Decimal
	Paid             bool
	PaidDate         *time.Time
	PaymentAccountID *uuid.UUID
}

// Total recomputes principal + interest + fees.
func (i *Installment) Total() decimal.Decimal {
	return i.PrincipalAmount.Add(i.InterestAmount).Add(i.FeesAmount)
}

// Due pairs a loan with one of its installments.
type Due struct {
	Loan        *Loan
	Installment *Installment
}

// Summary aggregates a loan's schedule.
type Summary struct {
	Loan             *Loan
	Installments     []*Installment
	PaidCount        int
	TotalPrincipal   decimal.Decimal
	TotalInterest    decimal.Decimal
	TotalFees        decimal.Decimal
	TotalPaid        decimal.Decimal
	TotalOutstanding decimal.Decimal
	NextDue          *Installment
}
