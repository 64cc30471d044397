package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/account"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/errs"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectAccountColumns = `
	id, owner_id, name, bank, alias, initial_balance, balance, currency, commission_rate, created_at, updated_at
`

// scanAccount expects the column order of selectAccountColumns.
func scanAccount(s scanner) (*account.Account, error) {
	var (
		acc                  account.Account
		bank, alias          sql.NullString
		currency             string
		createdAt, updatedAt string
	)

	if err := s.Scan(
		&acc.ID, &acc.OwnerID, &acc.Name, &bank, &alias,
		&acc.InitialBalance, &acc.Balance, &currency, &acc.CommissionRate,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	acc.Bank = bank.String
	acc.Alias = alias.String
	acc.Currency = money.Currency(currency)

	var err error
	if acc.CreatedAt, err = database.ParseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	if acc.UpdatedAt, err = database.ParseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &acc, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Get reads one account through q. The ledger calls it inside its own database transaction.
func Get(ctx context.Context, q database.Querier, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE id = $1`

	acc, err := scanAccount(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("account", id)
		}

		return nil, errs.Storage("getting account", err)
	}

	return acc, nil
}

// UpdateBalance overwrites the cached balance. Only the transaction ledger calls it.
func UpdateBalance(ctx context.Context, q database.Querier, id uuid.UUID, balance decimal.Decimal, at time.Time) error {
	res, err := q.ExecContext(ctx,
		`UPDATE accounts SET balance = $1, updated_at = $2 WHERE id = $3`,
		balance, database.FormatTimestamp(at), id,
	)
	if err != nil {
		return errs.Storage("updating balance", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errs.Storage("updating balance", err)
	}

	if n == 0 {
		return errs.NotFound("account", id)
	}

	return nil
}

// Exists reports whether an account with id is stored.
func Exists(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error) {
	var one int

	err := q.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE id = $1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, errs.Storage("checking account", err)
	}

	return true, nil
}

func (s *Store) CreateAccount(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (id, owner_id, name, bank, alias, initial_balance, balance, currency, commission_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.db.ExecContext(ctx, query,
		acc.ID,
		acc.OwnerID,
		acc.Name,
		nullString(acc.Bank),
		nullString(acc.Alias),
		acc.InitialBalance,
		acc.Balance,
		string(acc.Currency),
		acc.CommissionRate,
		database.FormatTimestamp(acc.CreatedAt),
		database.FormatTimestamp(acc.UpdatedAt),
	)
	if err != nil {
		return errs.Storage("creating account", err)
	}

	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return Get(ctx, s.db, id)
}

func (s *Store) ListAccounts(ctx context.Context, filter account.ListFilter) ([]*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts`

	var args []any

	if filter.OwnerID != nil {
		query += ` WHERE owner_id = $1`

		args = append(args, *filter.OwnerID)
	}

	query += ` ORDER BY name ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Storage("listing accounts", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, errs.Storage("scanning account", err)
		}

		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Storage("iterating account rows", err)
	}

	return accounts, nil
}

// UpdateAccount writes the descriptive fields. Balance columns are left alone.
func (s *Store) UpdateAccount(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, bank = $2, alias = $3, commission_rate = $4, updated_at = $5
		WHERE id = $6
	`

	res, err := s.db.ExecContext(ctx, query,
		acc.Name,
		nullString(acc.Bank),
		nullString(acc.Alias),
		acc.CommissionRate,
		database.FormatTimestamp(acc.UpdatedAt),
		acc.ID,
	)
	if err != nil {
		return errs.Storage("updating account", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("account", acc.ID)
	}

	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id); err != nil {
		return errs.Storage("deleting account", err)
	}

	return nil
}

func (s *Store) HasReferences(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM transactions WHERE from_account_id = $1 OR to_account_id = $1) +
			(SELECT COUNT(*) FROM loans WHERE borrower_account_id = $1 OR lender_account_id = $1) +
			(SELECT COUNT(*) FROM loan_installments WHERE payment_account_id = $1)
	`

	var n int64
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return false, errs.Storage("counting account references", err)
	}

	return n > 0, nil
}
