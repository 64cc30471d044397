package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/account"
	accountStore "github.com/MrJamesThe3rd/tally/internal/account/store"
	"github.com/MrJamesThe3rd/tally/internal/database/databasetest"
	"github.com/MrJamesThe3rd/tally/internal/errs"
	"github.com/MrJamesThe3rd/tally/internal/loan"
	"github.com/MrJamesThe3rd/tally/internal/loan/store"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

type env struct {
	ctx      context.Context
	accounts *account.Service
	loans    *loan.Service
	store    *store.Store
}

func newEnv(t *testing.T) *env {
	db := databasetest.New(t)
	s := store.New(db)

	return &env{
		ctx:      context.Background(),
		accounts: account.NewService(accountStore.New(db)),
		loans:    loan.NewService(s),
		store:    s,
	}
}

func (e *env) account(t *testing.T, name string) uuid.UUID {
	t.Helper()

	acc, err := e.accounts.Create(e.ctx, account.CreateParams{
		OwnerID:        uuid.New(),
		Name:           name,
		InitialBalance: decimal.NewFromInt(1000),
		Currency:       money.USD,
	})
	require.NoError(t, err)

	return acc.ID
}

func (e *env) exampleLoan(t *testing.T, borrower uuid.UUID) *loan.Loan {
	t.Helper()

	l, err := e.loans.Create(e.ctx, loan.CreateParams{
		BorrowerAccountID: borrower,
		Principal:         decimal.NewFromInt(1200),
		Currency:          money.USD,
		InterestRate:      new(decimal.RequireFromString("0.12")),
		StartDate:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		InstallmentCount:  new(12),
		PaymentFrequency:  loan.Monthly,
		Notes:             "car",
	})
	require.NoError(t, err)

	return l
}

func (e *env) status(t *testing.T, id uuid.UUID) loan.Status {
	t.Helper()

	l, err := e.loans.Get(e.ctx, id)
	require.NoError(t, err)

	return l.Status
}

func TestLoan_RoundTrip(t *testing.T) {
	e := newEnv(t)
	borrower := e.account(t, "checking")
	lender := e.account(t, "bank")

	created, err := e.loans.Create(e.ctx, loan.CreateParams{
		BorrowerAccountID: borrower,
		LenderAccountID:   &lender,
		Principal:         decimal.RequireFromString("250000.50"),
		Currency:          money.ARS,
		InterestRate:      new(decimal.RequireFromString("0.35")),
		StartDate:         time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		TermMonths:        new(3),
		PaymentFrequency:  loan.Monthly,
	})
	require.NoError(t, err)

	got, err := e.loans.Get(e.ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, borrower, got.BorrowerAccountID)
	assert.Equal(t, &lender, got.LenderAccountID)
	assert.Equal(t, "250000.50", got.Principal.StringFixed(2))
	assert.Equal(t, money.ARS, got.Currency)
	assert.True(t, decimal.RequireFromString("0.35").Equal(got.InterestRate))
	assert.Equal(t, 3, *got.TermMonths)
	assert.Equal(t, 3, *got.InstallmentCount)
	assert.Equal(t, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), *got.EndDate)
	assert.Equal(t, loan.StatusActive, got.Status)

	insts, err := e.loans.Installments(e.ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, insts, 3)

	wantDue := []time.Time{
		time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
	}

	for i, inst := range insts {
		assert.Equal(t, i+1, inst.Sequence)
		assert.Equal(t, wantDue[i], inst.DueDate)
		assert.False(t, inst.Paid)
		assert.Nil(t, inst.PaidDate)
		assert.Nil(t, inst.PaymentAccountID)
		assert.True(t, inst.TotalAmount.Equal(inst.Total()))
	}
}

func TestLoan_ClosesExactlyOnLastPayment(t *testing.T) {
	e := newEnv(t)
	borrower := e.account(t, "checking")
	l := e.exampleLoan(t, borrower)

	insts, err := e.loans.Installments(e.ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, insts, 12)

	// Pay out of order: closure depends on the count, not on the sequence.
	for _, inst := range insts[1:] {
		_, err := e.loans.MarkInstallmentAsPaid(e.ctx, inst.ID, borrower)
		require.NoError(t, err)
		assert.Equal(t, loan.StatusActive, e.status(t, l.ID))
	}

	paid, err := e.loans.MarkInstallmentAsPaid(e.ctx, insts[0].ID, borrower)
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	assert.Equal(t, &borrower, paid.PaymentAccountID)
	assert.Equal(t, loan.StatusClosed, e.status(t, l.ID))

	again, err := e.loans.MarkInstallmentAsPaid(e.ctx, insts[0].ID, borrower)
	require.NoError(t, err)
	assert.Equal(t, paid.PaidDate, again.PaidDate)
	assert.Equal(t, loan.StatusClosed, e.status(t, l.ID))

	sum, err := e.loans.Summary(e.ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, sum.PaidCount)
	assert.True(t, sum.TotalOutstanding.IsZero())
	assert.Nil(t, sum.NextDue)
}

func TestLoan_MarkPaidUnknownAccountLeavesInstallment(t *testing.T) {
	e := newEnv(t)
	l := e.exampleLoan(t, e.account(t, "checking"))

	insts, err := e.loans.Installments(e.ctx, l.ID)
	require.NoError(t, err)

	_, err = e.loans.MarkInstallmentAsPaid(e.ctx, insts[0].ID, uuid.New())
	require.ErrorIs(t, err, errs.ErrNotFound)

	insts, err = e.loans.Installments(e.ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, insts[0].Paid)
}

func TestLoan_DebtAndNextDue(t *testing.T) {
	e := newEnv(t)
	borrower := e.account(t, "checking")

	first := e.exampleLoan(t, borrower)
	second := e.exampleLoan(t, borrower)
	defaulted := e.exampleLoan(t, borrower)

	_, err := e.loans.Default(e.ctx, defaulted.ID)
	require.NoError(t, err)

	debt, err := e.loans.TotalDebt(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, "2558.88", debt.StringFixed(2))

	firstInsts, err := e.loans.Installments(e.ctx, first.ID)
	require.NoError(t, err)

	_, err = e.loans.MarkInstallmentAsPaid(e.ctx, firstInsts[0].ID, borrower)
	require.NoError(t, err)

	debt, err = e.loans.TotalDebt(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, "2452.26", debt.StringFixed(2))

	due, err := e.loans.NextPaymentDue(e.ctx)
	require.NoError(t, err)
	require.NotNil(t, due)
	assert.Equal(t, second.ID, due.Loan.ID)
	assert.Equal(t, 1, due.Installment.Sequence)

	_, err = e.loans.Close(e.ctx, second.ID)
	require.NoError(t, err)

	due, err = e.loans.NextPaymentDue(e.ctx)
	require.NoError(t, err)
	require.NotNil(t, due)
	assert.Equal(t, first.ID, due.Loan.ID)
	assert.Equal(t, 2, due.Installment.Sequence)

	_, err = e.loans.Close(e.ctx, first.ID)
	require.NoError(t, err)

	due, err = e.loans.NextPaymentDue(e.ctx)
	require.NoError(t, err)
	assert.Nil(t, due)

	debt, err = e.loans.TotalDebt(e.ctx)
	require.NoError(t, err)
	assert.True(t, debt.IsZero())
}

func TestLoan_ListByStatus(t *testing.T) {
	e := newEnv(t)
	borrower := e.account(t, "checking")

	active := e.exampleLoan(t, borrower)
	closed := e.exampleLoan(t, borrower)

	_, err := e.loans.Close(e.ctx, closed.ID)
	require.NoError(t, err)

	all, err := e.loans.List(e.ctx, loan.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyActive, err := e.loans.List(e.ctx, loan.ListFilter{Status: new(loan.StatusActive)})
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, active.ID, onlyActive[0].ID)
}

func TestLoan_DeleteCascades(t *testing.T) {
	e := newEnv(t)
	borrower := e.account(t, "checking")
	l := e.exampleLoan(t, borrower)

	insts, err := e.loans.Installments(e.ctx, l.ID)
	require.NoError(t, err)

	require.NoError(t, e.loans.Delete(e.ctx, l.ID))

	_, err = e.loans.Get(e.ctx, l.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	left, err := e.store.ListInstallments(e.ctx, l.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	_, err = e.loans.MarkInstallmentAsPaid(e.ctx, insts[0].ID, borrower)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.ErrorIs(t, e.loans.Delete(e.ctx, l.ID), errs.ErrNotFound)

	// With the loan gone nothing references the account any more.
	require.NoError(t, e.accounts.Delete(e.ctx, borrower))
}

func TestLoan_UnknownBorrowerWritesNothing(t *testing.T) {
	e := newEnv(t)

	_, err := e.loans.Create(e.ctx, loan.CreateParams{
		BorrowerAccountID: uuid.New(),
		Principal:         decimal.NewFromInt(100),
		Currency:          money.USD,
		StartDate:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		InstallmentCount:  new(2),
		PaymentFrequency:  loan.Monthly,
	})
	require.ErrorIs(t, err, errs.ErrNotFound)

	all, err := e.loans.List(e.ctx, loan.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}
