package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	accountStore "github.com/MrJamesThe3rd/tally/internal/account/store"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/errs"
	"github.com/MrJamesThe3rd/tally/internal/loan"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectLoanColumns = `
	id, borrower_account_id, lender_account_id, principal, currency, interest_rate, start_date, end_date,
	term_months, installment_count, payment_frequency, status, notes, created_at, updated_at
`

func scanLoan(s scanner) (*loan.Loan, error) {
	var (
		l                        loan.Loan
		currency, freq, status   string
		startDate                string
		endDate                  sql.NullString
		createdAt, updatedAt     string
		termMonths, installCount *int
	)

	if err := s.Scan(
		&l.ID, &l.BorrowerAccountID, &l.LenderAccountID, &l.Principal, &currency, &l.InterestRate,
		&startDate, &endDate, &termMonths, &installCount, &freq, &status, &l.Notes,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	l.Currency = money.Currency(currency)
	l.PaymentFrequency = loan.Frequency(freq)
	l.Status = loan.Status(status)
	l.TermMonths = termMonths
	l.InstallmentCount = installCount

	var err error
	if l.StartDate, err = database.ParseDate(startDate); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}

	if l.EndDate, err = database.ParseNullDate(endDate); err != nil {
		return nil, fmt.Errorf("parsing end_date: %w", err)
	}

	if l.CreatedAt, err = database.ParseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	if l.UpdatedAt, err = database.ParseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &l, nil
}

const selectInstallmentColumns = `
	id, loan_id, sequence, due_date, principal_amount, interest_amount, fees_amount, total_amount,
	paid, paid_at, payment_account_id
`

func scanInstallment(s scanner) (*loan.Installment, error) {
	var (
		inst    loan.Installment
		dueDate string
		paidAt  sql.NullString
	)

	if err := s.Scan(
		&inst.ID, &inst.LoanID, &inst.Sequence, &dueDate,
		&inst.PrincipalAmount, &inst.InterestAmount, &inst.FeesAmount, &inst.TotalAmount,
		&inst.Paid, &paidAt, &inst.PaymentAccountID,
	); err != nil {
		return nil, err
	}

	var err error
	if inst.DueDate, err = database.ParseDate(dueDate); err != nil {
		return nil, fmt.Errorf("parsing due_date: %w", err)
	}

	if inst.PaidDate, err = database.ParseNullDate(paidAt); err != nil {
		return nil, fmt.Errorf("parsing paid_at: %w", err)
	}

	return &inst, nil
}

func getLoan(ctx context.Context, q database.Querier, id uuid.UUID) (*loan.Loan, error) {
	l, err := scanLoan(q.QueryRowContext(ctx, `SELECT `+selectLoanColumns+` FROM loans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("loan", id)
		}

		return nil, errs.Storage("getting loan", err)
	}

	return l, nil
}

func listInstallments(ctx context.Context, q database.Querier, query string, args ...any) ([]*loan.Installment, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Storage("listing installments", err)
	}
	defer rows.Close()

	var installments []*loan.Installment

	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, errs.Storage("scanning installment", err)
		}

		installments = append(installments, inst)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Storage("iterating installment rows", err)
	}

	return installments, nil
}

func (s *Store) GetLoan(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	return getLoan(ctx, s.db, id)
}

func (s *Store) ListLoans(ctx context.Context, filter loan.ListFilter) ([]*loan.Loan, error) {
	query := `SELECT ` + selectLoanColumns + ` FROM loans`

	var args []any

	if filter.Status != nil {
		query += ` WHERE status = $1`

		args = append(args, string(*filter.Status))
	}

	query += ` ORDER BY start_date ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Storage("listing loans", err)
	}
	defer rows.Close()

	var loans []*loan.Loan

	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, errs.Storage("scanning loan", err)
		}

		loans = append(loans, l)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Storage("iterating loan rows", err)
	}

	return loans, nil
}

func (s *Store) ListInstallments(ctx context.Context, loanID uuid.UUID) ([]*loan.Installment, error) {
	query := `SELECT ` + selectInstallmentColumns + ` FROM loan_installments WHERE loan_id = $1 ORDER BY sequence ASC`

	return listInstallments(ctx, s.db, query, loanID)
}

func (s *Store) ListUnpaidInstallments(ctx context.Context, status loan.Status) ([]*loan.Installment, error) {
	query := `
		SELECT ` + qualified("i", selectInstallmentColumns) + `
		FROM loan_installments i
		JOIN loans l ON l.id = i.loan_id
		WHERE l.status = $1 AND NOT i.paid
		ORDER BY i.due_date ASC, i.sequence ASC
	`

	return listInstallments(ctx, s.db, query, string(status))
}

type loanTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (loan.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errs.Storage("beginning loan tx", err)
	}

	return &loanTx{tx: dbTx}, nil
}

func (ltx *loanTx) Commit() error { return ltx.tx.Commit() }

// Rollback is safe to defer after Commit.
func (ltx *loanTx) Rollback() error {
	if err := ltx.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

func (ltx *loanTx) AccountExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return accountStore.Exists(ctx, ltx.tx, id)
}

func (ltx *loanTx) GetLoan(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	return getLoan(ctx, ltx.tx, id)
}

func (ltx *loanTx) CreateLoan(ctx context.Context, l *loan.Loan) error {
	query := `
		INSERT INTO loans (
			id, borrower_account_id, lender_account_id, principal, currency, interest_rate, start_date, end_date,
			term_months, installment_count, payment_frequency, status, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := ltx.tx.ExecContext(ctx, query,
		l.ID,
		l.BorrowerAccountID,
		l.LenderAccountID,
		l.Principal,
		string(l.Currency),
		l.InterestRate,
		database.FormatDate(l.StartDate),
		database.NullDate(l.EndDate),
		l.TermMonths,
		l.InstallmentCount,
		string(l.PaymentFrequency),
		string(l.Status),
		l.Notes,
		database.FormatTimestamp(l.CreatedAt),
		database.FormatTimestamp(l.UpdatedAt),
	)
	if err != nil {
		return errs.Storage("creating loan", err)
	}

	return nil
}

func (ltx *loanTx) UpdateLoanStatus(ctx context.Context, id uuid.UUID, status loan.Status) error {
	res, err := ltx.tx.ExecContext(ctx,
		`UPDATE loans SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), database.FormatTimestamp(time.Now()), id,
	)
	if err != nil {
		return errs.Storage("updating loan status", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("loan", id)
	}

	return nil
}

func (ltx *loanTx) DeleteLoan(ctx context.Context, id uuid.UUID) error {
	res, err := ltx.tx.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return errs.Storage("deleting loan", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("loan", id)
	}

	return nil
}

func (ltx *loanTx) GetInstallment(ctx context.Context, id uuid.UUID) (*loan.Installment, error) {
	query := `SELECT ` + selectInstallmentColumns + ` FROM loan_installments WHERE id = $1`

	inst, err := scanInstallment(ltx.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("installment", id)
		}

		return nil, errs.Storage("getting installment", err)
	}

	return inst, nil
}

// CreateInstallments inserts the whole schedule through one prepared statement.
func (ltx *loanTx) CreateInstallments(ctx context.Context, installments []*loan.Installment) error {
	stmt, err := ltx.tx.PrepareContext(ctx, `
		INSERT INTO loan_installments (
			id, loan_id, sequence, due_date, principal_amount, interest_amount, fees_amount, total_amount, paid
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return errs.Storage("preparing installment insert", err)
	}
	defer stmt.Close()

	for _, inst := range installments {
		_, err := stmt.ExecContext(ctx,
			inst.ID,
			inst.LoanID,
			inst.Sequence,
			database.FormatDate(inst.DueDate),
			inst.PrincipalAmount,
			inst.InterestAmount,
			inst.FeesAmount,
			inst.Total(),
			inst.Paid,
		)
		if err != nil {
			return errs.Storage(fmt.Sprintf("creating installment %d", inst.Sequence), err)
		}
	}

	return nil
}

func (ltx *loanTx) MarkInstallmentPaid(ctx context.Context, inst *loan.Installment) error {
	res, err := ltx.tx.ExecContext(ctx,
		`UPDATE loan_installments SET paid = $1, paid_at = $2, payment_account_id = $3 WHERE id = $4`,
		true, database.NullDate(inst.PaidDate), inst.PaymentAccountID, inst.ID,
	)
	if err != nil {
		return errs.Storage("marking installment paid", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("installment", inst.ID)
	}

	return nil
}

func (ltx *loanTx) CountUnpaidInstallments(ctx context.Context, loanID uuid.UUID) (int, error) {
	var n int

	err := ltx.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM loan_installments WHERE loan_id = $1 AND NOT paid`, loanID,
	).Scan(&n)
	if err != nil {
		return 0, errs.Storage("counting unpaid installments", err)
	}

	return n, nil
}

func (ltx *loanTx) DeleteInstallments(ctx context.Context, loanID uuid.UUID) error {
	if _, err := ltx.tx.ExecContext(ctx, `DELETE FROM loan_installments WHERE loan_id = $1`, loanID); err != nil {
		return errs.Storage("deleting installments", err)
	}

	return nil
}

// qualified prefixes every column of a select list with alias.
func qualified(alias, columns string) string {
	fields := strings.Split(columns, ",")
	for i, f := range fields {
		fields[i] = alias + "." + strings.TrimSpace(f)
	}

	return strings.Join(fields, ", ")
}
