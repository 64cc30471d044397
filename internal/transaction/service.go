package transaction

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/account"
	"github.com/MrJamesThe3rd/tally/internal/audit"
	"github.com/MrJamesThe3rd/tally/internal/errs"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx is one atomic unit of ledger work: the transaction row and the balances it moves are
// committed together or not at all.
type Tx interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error

	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	CreateTransaction(ctx context.Context, tx *Transaction) error
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	Commit() error
	Rollback() error
}

// Service is the ledger: the only writer of account balances.
//
// Create, Update and Delete are serialized by mu so that no other write can interleave between
// reverting and reapplying a transaction's balance effect.
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
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        decimal.Decimal
	Date          time.Time
	CategoryID    *uuid.UUID
	AssetID       *uuid.UUID
	Type          Type
	Description   string
}

// UpdateParams holds the fields to change; nil fields keep their stored value.
// ClearCategory and ClearAsset drop the reference and take precedence over CategoryID and AssetID.
type UpdateParams struct {
	FromAccountID *uuid.UUID
	ToAccountID   *uuid.UUID
	Amount        *decimal.Decimal
	Date          *time.Time
	CategoryID    *uuid.UUID
	AssetID       *uuid.UUID
	ClearCategory bool
	ClearAsset    bool
	Type          *Type
	Description   *string
}

// ListFilter narrows List. Zero-valued fields do not filter.
type ListFilter struct {
	AccountID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *uuid.UUID
	AssetID    *uuid.UUID
	Type       *Type
}

func validate(t *Transaction) error {
	if !t.Type.Valid() {
		return errs.Invalid("type", fmt.Sprintf("unknown transaction type %q", t.Type))
	}

	if t.FromAccountID == uuid.Nil || t.ToAccountID == uuid.Nil {
		return errs.Invalid("account", "from and to accounts are required")
	}

	if err := money.RequirePositive("amount", t.Amount); err != nil {
		return err
	}

	if t.Type.RequiresDistinctAccounts() && t.SameAccount() {
		return errs.Invalid("to_account_id", "a transfer needs two different accounts")
	}

	if t.Date.IsZero() {
		return errs.Invalid("date", "is required")
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	now := s.now().UTC()
	t := &Transaction{
		ID:            uuid.New(),
		FromAccountID: params.FromAccountID,
		ToAccountID:   params.ToAccountID,
		Amount:        params.Amount,
		Date:          dateOnly(params.Date),
		CategoryID:    params.CategoryID,
		AssetID:       params.AssetID,
		Type:          params.Type,
		Description:   params.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := validate(t); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dbTx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create: %w", err)
	}
	defer dbTx.Rollback()

	if err := requireAccounts(ctx, dbTx, t); err != nil {
		return nil, err
	}

	if err := dbTx.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}

	if err := s.apply(ctx, dbTx, t, false); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, errs.Storage("commit create", err)
	}

	s.emit(ctx, audit.TransactionCreated, t)

	return t, nil
}

// Update reverts the stored transaction's balance effect, applies params and reapplies the
// effect with the new accounts and amount, all inside one database transaction.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dbTx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer dbTx.Rollback()

	old, err := dbTx.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := merge(old, params)
	if err := validate(updated); err != nil {
		return nil, err
	}

	if err := requireAccounts(ctx, dbTx, updated); err != nil {
		return nil, err
	}

	updated.UpdatedAt = s.now().UTC()

	if err := s.apply(ctx, dbTx, old, true); err != nil {
		return nil, err
	}

	if err := s.apply(ctx, dbTx, updated, false); err != nil {
		return nil, err
	}

	if err := dbTx.UpdateTransaction(ctx, updated); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, errs.Storage("commit update", err)
	}

	s.emit(ctx, audit.TransactionUpdated, updated)

	return updated, nil
}

// Delete reverts the transaction's balance effect and removes it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dbTx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer dbTx.Rollback()

	old, err := dbTx.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if err := s.apply(ctx, dbTx, old, true); err != nil {
		return err
	}

	if err := dbTx.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return errs.Storage("commit delete", err)
	}

	s.emit(ctx, audit.TransactionDeleted, old)

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// List returns matching transactions ordered by date.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Reconcile derives an account's balance from its initial balance and every stored transaction
// touching it, and reports it next to the cached balance. Nothing is written.
func (s *Service) Reconcile(ctx context.Context, accountID uuid.UUID) (*Reconciliation, error) {
	acc, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	txs, err := s.repo.ListTransactions(ctx, ListFilter{AccountID: &accountID})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	r := &Reconciliation{
		AccountID:      accountID,
		InitialBalance: acc.InitialBalance,
		Credits:        decimal.Zero,
		Debits:         decimal.Zero,
		Cached:         acc.Balance,
	}

	for _, t := range txs {
		if t.SameAccount() {
			continue
		}

		switch accountID {
		case t.ToAccountID:
			r.Credits = r.Credits.Add(t.Amount)
		case t.FromAccountID:
			r.Debits = r.Debits.Add(t.Amount)
		}
	}

	r.Derived = r.InitialBalance.Add(r.Credits).Sub(r.Debits)

	return r, nil
}

// apply debits From and credits To by t.Amount, or the inverse when revert is set.
// Same-account postings have no balance effect.
func (s *Service) apply(ctx context.Context, dbTx Tx, t *Transaction, revert bool) error {
	if t.SameAccount() {
		return nil
	}

	amount := t.Amount
	if revert {
		amount = amount.Neg()
	}

	if err := adjust(ctx, dbTx, t.FromAccountID, amount.Neg()); err != nil {
		return err
	}

	return adjust(ctx, dbTx, t.ToAccountID, amount)
}

// requireAccounts fails with a NotFoundError naming the first missing account.
func requireAccounts(ctx context.Context, dbTx Tx, t *Transaction) error {
	if _, err := dbTx.GetAccount(ctx, t.FromAccountID); err != nil {
		return err
	}

	if t.SameAccount() {
		return nil
	}

	_, err := dbTx.GetAccount(ctx, t.ToAccountID)

	return err
}

func adjust(ctx context.Context, dbTx Tx, accountID uuid.UUID, delta decimal.Decimal) error {
	acc, err := dbTx.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}

	return dbTx.UpdateBalance(ctx, accountID, acc.Balance.Add(delta))
}

func merge(old *Transaction, p UpdateParams) *Transaction {
	t := *old

	if p.FromAccountID != nil {
		t.FromAccountID = *p.FromAccountID
	}

	if p.ToAccountID != nil {
		t.ToAccountID = *p.ToAccountID
	}

	if p.Amount != nil {
		t.Amount = *p.Amount
	}

	if p.Date != nil {
		t.Date = dateOnly(*p.Date)
	}

	if p.CategoryID != nil {
		t.CategoryID = p.CategoryID
	}

	if p.AssetID != nil {
		t.AssetID = p.AssetID
	}

	if p.ClearCategory {
		t.CategoryID = nil
	}

	if p.ClearAsset {
		t.AssetID = nil
	}

	if p.Type != nil {
		t.Type = *p.Type
	}

	if p.Description != nil {
		t.Description = *p.Description
	}

	return &t
}

func (s *Service) emit(ctx context.Context, kind audit.Kind, t *Transaction) {
	audit.Emit(ctx, s.publisher, audit.Event{
		Kind:       kind,
		EntityID:   t.ID,
		AccountIDs: []uuid.UUID{t.FromAccountID, t.ToAccountID},
		Amount:     t.Amount.String(),
		At:         s.now().UTC(),
	})
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
