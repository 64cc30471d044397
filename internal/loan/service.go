package loan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/audit"
	"github.com/MrJamesThe3rd/tally/internal/errs"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=loan
type Repository interface {
	GetLoan(ctx context.Context, id uuid.UUID) (*Loan, error)
	ListLoans(ctx context.Context, filter ListFilter) ([]*Loan, error)
	ListInstallments(ctx context.Context, loanID uuid.UUID) ([]*Installment, error)
	// ListUnpaidInstallments returns unpaid installments of loans in status, ordered by due date.
	ListUnpaidInstallments(ctx context.Context, status Status) ([]*Installment, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx groups the writes of one loan operation.
type Tx interface {
	AccountExists(ctx context.Context, id uuid.UUID) (bool, error)

	GetLoan(ctx context.Context, id uuid.UUID) (*Loan, error)
	CreateLoan(ctx context.Context, loan *Loan) error
	UpdateLoanStatus(ctx context.Context, id uuid.UUID, status Status) error
	DeleteLoan(ctx context.Context, id uuid.UUID) error

	GetInstallment(ctx context.Context, id uuid.UUID) (*Installment, error)
	CreateInstallments(ctx context.Context, installments []*Installment) error
	MarkInstallmentPaid(ctx context.Context, inst *Installment) error
	CountUnpaidInstallments(ctx context.Context, loanID uuid.UUID) (int, error)
	DeleteInstallments(ctx context.Context, loanID uuid.UUID) error

	Commit() error
	Rollback() error
}

type Service struct {
	repo      Repository
	publisher audit.Publisher
	now       func() time.Time

	mu sync.Mutex
}

type Option func(*Service)

func WithPublisher(p audit.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, publisher: audit.Nop{}, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	BorrowerAccountID uuid.UUID
	LenderAccountID   *uuid.UUID
	Principal         decimal.Decimal
	Currency          money.Currency
	InterestRate      *decimal.Decimal // nil means 0
	StartDate         time.Time
	EndDate           *time.Time
	TermMonths        *int
	InstallmentCount  *int
	PaymentFrequency  Frequency
	Notes             string
}

type ListFilter struct {
	Status *Status
}

func (p CreateParams) validate() error {
	if p.BorrowerAccountID == uuid.Nil {
		return errs.Invalid("borrower_account_id", "is required")
	}

	if err := money.RequirePositive("principal", p.Principal); err != nil {
		return err
	}

	if p.InterestRate != nil && p.InterestRate.IsNegative() {
		return errs.Invalid("interest_rate", "must not be negative")
	}

	if !p.Currency.Valid() {
		return errs.Invalid("currency", fmt.Sprintf("unsupported currency %q", p.Currency))
	}

	if !p.PaymentFrequency.Valid() {
		return errs.Invalid("payment_frequency", fmt.Sprintf("unknown frequency %q", p.PaymentFrequency))
	}

	if p.StartDate.IsZero() {
		return errs.Invalid("start_date", "is required")
	}

	if p.TermMonths != nil && *p.TermMonths < 0 {
		return errs.Invalid("term_months", "must not be negative")
	}

	return nil
}

// installmentCount is the explicit count, or the number of periods that fit in TermMonths.
func (p CreateParams) installmentCount() *int {
	if p.InstallmentCount != nil {
		return p.InstallmentCount
	}

	if p.TermMonths == nil {
		return nil
	}

	return new(*p.TermMonths * p.PaymentFrequency.PeriodsPerYear() / 12)
}

// Create stores an Active loan together with its generated installment schedule.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Loan, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	l := &Loan{
		ID:                uuid.New(),
		BorrowerAccountID: params.BorrowerAccountID,
		LenderAccountID:   params.LenderAccountID,
		Principal:         params.Principal,
		Currency:          params.Currency,
		InterestRate:      decimal.Zero,
		StartDate:         dateOnly(params.StartDate),
		TermMonths:        params.TermMonths,
		InstallmentCount:  params.installmentCount(),
		PaymentFrequency:  params.PaymentFrequency,
		Status:            StatusActive,
		Notes:             params.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if params.InterestRate != nil {
		l.InterestRate = *params.InterestRate
	}

	if params.EndDate != nil {
		l.EndDate = new(dateOnly(*params.EndDate))
	}

	var schedule []*Installment
	if l.InstallmentCount != nil {
		schedule = GenerateSchedule(l.ID, Terms{
			Principal:    l.Principal,
			InterestRate: l.InterestRate,
			Frequency:    l.PaymentFrequency,
			Count:        *l.InstallmentCount,
			StartDate:    l.StartDate,
		})
	}

	if l.EndDate == nil && len(schedule) > 0 {
		l.EndDate = new(schedule[len(schedule)-1].DueDate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dbTx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create loan: %w", err)
	}
	defer dbTx.Rollback()

	if err := requireAccount(ctx, dbTx, l.BorrowerAccountID); err != nil {
		return nil, err
	}

	if l.LenderAccountID != nil {
		if err := requireAccount(ctx, dbTx, *l.LenderAccountID); err != nil {
			return nil, err
		}
	}

	if err := dbTx.CreateLoan(ctx, l); err != nil {
		return nil, err
	}

	if len(schedule) > 0 {
		if err := dbTx.CreateInstallments(ctx, schedule); err != nil {
			return nil, err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return nil, errs.Storage("commit create loan", err)
	}

	s.emit(ctx, audit.LoanCreated, l.ID, l.Principal, l.BorrowerAccountID)

	return l, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Loan, error) {
	return s.repo.GetLoan(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Loan, error) {
	return s.repo.ListLoans(ctx, filter)
}

// Installments returns the loan's schedule ordered by sequence.
func (s *Service) Installments(ctx context.Context, loanID uuid.UUID) ([]*Installment, error) {
	if _, err := s.repo.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}

	return s.repo.ListInstallments(ctx, loanID)
}

func (s *Service) Summary(ctx context.Context, loanID uuid.UUID) (*Summary, error) {
	l, err := s.repo.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	installments, err := s.repo.ListInstallments(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("listing installments: %w", err)
	}

	sum := &Summary{
		Loan:             l,
		Installments:     installments,
		TotalPrincipal:   decimal.Zero,
		TotalInterest:    decimal.Zero,
		TotalFees:        decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}

	for _, inst := range installments {
		sum.TotalPrincipal = sum.TotalPrincipal.Add(inst.PrincipalAmount)
		sum.TotalInterest = sum.TotalInterest.Add(inst.InterestAmount)
		sum.TotalFees = sum.TotalFees.Add(inst.FeesAmount)

		if inst.Paid {
			sum.PaidCount++
			sum.TotalPaid = sum.TotalPaid.Add(inst.TotalAmount)

			continue
		}

		sum.TotalOutstanding = sum.TotalOutstanding.Add(inst.TotalAmount)

		if sum.NextDue == nil || inst.DueDate.Before(sum.NextDue.DueDate) {
			sum.NextDue = inst
		}
	}

	return sum, nil
}

// MarkInstallmentAsPaid records that paymentAccountID paid the installment today. When it was the
// loan's last unpaid installment an Active loan becomes Closed. No money moves: the balance effect
// is a separate ledger transaction. Marking a paid installment again returns it unchanged.
func (s *Service) MarkInstallmentAsPaid(ctx context.Context, installmentID, paymentAccountID uuid.UUID) (*Installment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dbTx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin mark paid: %w", err)
	}
	defer dbTx.Rollback()

	inst, err := dbTx.GetInstallment(ctx, installmentID)
	if err != nil {
		return nil, err
	}

	if inst.Paid {
		return inst, nil
	}

	if err := requireAccount(ctx, dbTx, paymentAccountID); err != nil {
		return nil, err
	}

	l, err := dbTx.GetLoan(ctx, inst.LoanID)
	if err != nil {
		return nil, err
	}

	inst.Paid = true
	inst.PaidDate = new(dateOnly(s.now()))
	inst.PaymentAccountID = &paymentAccountID

	if err := dbTx.MarkInstallmentPaid(ctx, inst); err != nil {
		return nil, err
	}

	closed := false

	if l.Status == StatusActive {
		unpaid, err := dbTx.CountUnpaidInstallments(ctx, l.ID)
		if err != nil {
			return nil, err
		}

		if unpaid == 0 {
			if err := dbTx.UpdateLoanStatus(ctx, l.ID, StatusClosed); err != nil {
				return nil, err
			}

			closed = true
		}
	}

	if err := dbTx.Commit(); err != nil {
		return nil, errs.Storage("commit mark paid", err)
	}

	s.emit(ctx, audit.InstallmentPaid, inst.ID, inst.TotalAmount, paymentAccountID)

	if closed {
		s.emit(ctx, audit.LoanClosed, l.ID, decimal.Zero, l.BorrowerAccountID)
	}

	return inst, nil
}

// Close moves an Active loan to Closed. Closing a Closed loan is a no-op.
func (s *Service) Close(ctx context.Context, id uuid.UUID) (*Loan, error) {
	return s.transition(ctx, id, StatusClosed, audit.LoanClosed)
}

// Default moves an Active loan to Defaulted. Defaulting a Defaulted loan is a no-op.
func (s *Service) Default(ctx context.Context, id uuid.UUID) (*Loan, error) {
	return s.transition(ctx, id, StatusDefaulted, audit.LoanDefaulted)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to Status, kind audit.Kind) (*Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dbTx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin status change: %w", err)
	}
	defer dbTx.Rollback()

	l, err := dbTx.GetLoan(ctx, id)
	if err != nil {
		return nil, err
	}

	switch l.Status {
	case to:
		return l, nil
	case StatusActive:
	default:
		return nil, errs.Invalid("status", fmt.Sprintf("loan is %s and cannot become %s", l.Status, to))
	}

	if err := dbTx.UpdateLoanStatus(ctx, id, to); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, errs.Storage("commit status change", err)
	}

	l.Status = to
	l.UpdatedAt = s.now().UTC()

	s.emit(ctx, kind, l.ID, decimal.Zero, l.BorrowerAccountID)

	return l, nil
}

// Delete removes the loan's installments and then the loan.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dbTx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete loan: %w", err)
	}
	defer dbTx.Rollback()

	l, err := dbTx.GetLoan(ctx, id)
	if err != nil {
		return err
	}

	if err := dbTx.DeleteInstallments(ctx, id); err != nil {
		return err
	}

	if err := dbTx.DeleteLoan(ctx, id); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return errs.Storage("commit delete loan", err)
	}

	s.emit(ctx, audit.LoanDeleted, l.ID, l.Principal, l.BorrowerAccountID)

	return nil
}

// TotalDebt sums the total of every unpaid installment of every Active loan. Amounts in different
// currencies are added as they are.
func (s *Service) TotalDebt(ctx context.Context) (decimal.Decimal, error) {
	installments, err := s.repo.ListUnpaidInstallments(ctx, StatusActive)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing unpaid installments: %w", err)
	}

	total := decimal.Zero
	for _, inst := range installments {
		total = total.Add(inst.TotalAmount)
	}

	return total, nil
}

// NextPaymentDue returns the earliest unpaid installment across Active loans, or nil when there is
// none. Ties on due date go to the lower sequence number.
func (s *Service) NextPaymentDue(ctx context.Context) (*Due, error) {
	installments, err := s.repo.ListUnpaidInstallments(ctx, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("listing unpaid installments: %w", err)
	}

	var next *Installment

	for _, inst := range installments {
		if next == nil || earlier(inst, next) {
			next = inst
		}
	}

	if next == nil {
		return nil, nil
	}

	l, err := s.repo.GetLoan(ctx, next.LoanID)
	if err != nil {
		return nil, err
	}

	return &Due{Loan: l, Installment: next}, nil
}

func earlier(a, b *Installment) bool {
	if !a.DueDate.Equal(b.DueDate) {
		return a.DueDate.Before(b.DueDate)
	}

	return a.Sequence < b.Sequence
}

func requireAccount(ctx context.Context, dbTx Tx, id uuid.UUID) error {
	ok, err := dbTx.AccountExists(ctx, id)
	if err != nil {
		return err
	}

	if !ok {
		return errs.NotFound("account", id)
	}

	return nil
}

func (s *Service) emit(ctx context.Context, kind audit.Kind, id uuid.UUID, amount decimal.Decimal, accountID uuid.UUID) {
	e := audit.Event{
		Kind:       kind,
		EntityID:   id,
		AccountIDs: []uuid.UUID{accountID},
		At:         s.now().UTC(),
	}

	if !amount.IsZero() {
		e.Amount = amount.String()
	}

	audit.Emit(ctx, s.publisher, e)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
