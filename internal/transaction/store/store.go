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
	accountStore "github.com/MrJamesThe3rd/tally/internal/account/store"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/errs"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
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

const selectTransactionColumns = `
	id, from_account_id, to_account_id, amount, date, category_id, asset_id, type, description, created_at, updated_at
`

// scanTransaction expects the column order of selectTransactionColumns.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx                   transaction.Transaction
		date, typeStr        string
		createdAt, updatedAt string
		categoryID, assetID  *uuid.UUID
	)

	if err := s.Scan(
		&tx.ID, &tx.FromAccountID, &tx.ToAccountID, &tx.Amount, &date,
		&categoryID, &assetID, &typeStr, &tx.Description,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.CategoryID = categoryID
	tx.AssetID = assetID

	var err error
	if tx.Date, err = database.ParseDate(date); err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}

	if tx.CreatedAt, err = database.ParseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	if tx.UpdatedAt, err = database.ParseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &tx, nil
}

func getTransaction(ctx context.Context, q database.Querier, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("transaction", id)
		}

		return nil, errs.Storage("getting transaction", err)
	}

	return tx, nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return getTransaction(ctx, s.db, id)
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return accountStore.Get(ctx, s.db, id)
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND (from_account_id = $%d OR to_account_id = $%d)", argIdx, argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, database.FormatDate(*filter.StartDate))
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, database.FormatDate(*filter.EndDate))
		argIdx++
	}

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", argIdx)

		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.AssetID != nil {
		query += fmt.Sprintf(" AND asset_id = $%d", argIdx)

		args = append(args, *filter.AssetID)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, string(*filter.Type))
	}

	query += " ORDER BY date ASC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Storage("listing transactions", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, errs.Storage("scanning transaction", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Storage("iterating transaction rows", err)
	}

	return txs, nil
}

type ledgerTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (transaction.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errs.Storage("beginning ledger tx", err)
	}

	return &ledgerTx{tx: dbTx}, nil
}

func (ltx *ledgerTx) Commit() error { return ltx.tx.Commit() }

// Rollback is safe to defer after Commit.
func (ltx *ledgerTx) Rollback() error {
	if err := ltx.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

func (ltx *ledgerTx) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return accountStore.Get(ctx, ltx.tx, id)
}

func (ltx *ledgerTx) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return accountStore.UpdateBalance(ctx, ltx.tx, id, balance, time.Now())
}

func (ltx *ledgerTx) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return getTransaction(ctx, ltx.tx, id)
}

func (ltx *ledgerTx) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, from_account_id, to_account_id, amount, date, category_id, asset_id, type, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := ltx.tx.ExecContext(ctx, query,
		tx.ID,
		tx.FromAccountID,
		tx.ToAccountID,
		tx.Amount,
		database.FormatDate(tx.Date),
		tx.CategoryID,
		tx.AssetID,
		string(tx.Type),
		tx.Description,
		database.FormatTimestamp(tx.CreatedAt),
		database.FormatTimestamp(tx.UpdatedAt),
	)
	if err != nil {
		return errs.Storage("creating transaction", err)
	}

	return nil
}

func (ltx *ledgerTx) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET from_account_id = $1, to_account_id = $2, amount = $3, date = $4, category_id = $5,
			asset_id = $6, type = $7, description = $8, updated_at = $9
		WHERE id = $10
	`

	res, err := ltx.tx.ExecContext(ctx, query,
		tx.FromAccountID,
		tx.ToAccountID,
		tx.Amount,
		database.FormatDate(tx.Date),
		tx.CategoryID,
		tx.AssetID,
		string(tx.Type),
		tx.Description,
		database.FormatTimestamp(tx.UpdatedAt),
		tx.ID,
	)
	if err != nil {
		return errs.Storage("updating transaction", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("transaction", tx.ID)
	}

	return nil
}

func (ltx *ledgerTx) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := ltx.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return errs.Storage("deleting transaction", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("transaction", id)
	}

	return nil
}
