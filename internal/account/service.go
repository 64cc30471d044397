package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/errs"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	CreateAccount(ctx context.Context, acc *Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	ListAccounts(ctx context.Context, filter ListFilter) ([]*Account, error)
	UpdateAccount(ctx context.Context, acc *Account) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	// HasReferences reports whether any transaction or loan points at the account.
	HasReferences(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateParams struct {
	OwnerID        uuid.UUID
	Name           string
	Bank           string
	Alias          string
	InitialBalance decimal.Decimal
	Currency       money.Currency
	CommissionRate decimal.NullDecimal
}

// UpdateParams lists the fields account management may change. Balance is not one of them.
type UpdateParams struct {
	Name           *string
	Bank           *string
	Alias          *string
	CommissionRate *decimal.NullDecimal
}

type ListFilter struct {
	OwnerID *uuid.UUID
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Account, error) {
	if params.OwnerID == uuid.Nil {
		return nil, errs.Invalid("owner_id", "is required")
	}

	if !params.Currency.Valid() {
		return nil, errs.Invalid("currency", fmt.Sprintf("unsupported currency %q", params.Currency))
	}

	acc := &Account{
		ID:             uuid.New(),
		OwnerID:        params.OwnerID,
		Name:           strings.TrimSpace(params.Name),
		Bank:           params.Bank,
		Alias:          params.Alias,
		InitialBalance: params.InitialBalance,
		Balance:        params.InitialBalance,
		Currency:       params.Currency,
		CommissionRate: params.CommissionRate,
	}

	if err := validate(acc); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	acc.CreatedAt, acc.UpdatedAt = now, now

	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Account, error) {
	return s.repo.ListAccounts(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Account, error) {
	acc, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		acc.Name = strings.TrimSpace(*params.Name)
	}

	if params.Bank != nil {
		acc.Bank = *params.Bank
	}

	if params.Alias != nil {
		acc.Alias = *params.Alias
	}

	if params.CommissionRate != nil {
		acc.CommissionRate = *params.CommissionRate
	}

	if err := validate(acc); err != nil {
		return nil, err
	}

	acc.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateAccount(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// Delete removes an account nothing references anymore.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetAccount(ctx, id); err != nil {
		return err
	}

	referenced, err := s.repo.HasReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("checking references: %w", err)
	}

	if referenced {
		return errs.Invalid("account", "still referenced by transactions or loans")
	}

	return s.repo.DeleteAccount(ctx, id)
}

var one = decimal.NewFromInt(1)

func validate(acc *Account) error {
	if acc.Name == "" {
		return errs.Invalid("name", "is required")
	}

	if acc.CommissionRate.Valid {
		rate := acc.CommissionRate.Decimal
		if rate.IsNegative() || rate.GreaterThan(one) {
			return errs.Invalid("commission_rate", "must be between 0 and 1")
		}
	}

	return nil
}
