package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/account"
	"github.com/MrJamesThe3rd/tally/internal/money"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type accountResponse struct {
	ID             uuid.UUID        `json:"id"`
	OwnerID        uuid.UUID        `json:"owner_id"`
	Name           string           `json:"name"`
	Bank           string           `json:"bank,omitempty"`
	Alias          string           `json:"alias,omitempty"`
	InitialBalance decimal.Decimal  `json:"initial_balance"`
	Balance        decimal.Decimal  `json:"balance"`
	BalanceDisplay string           `json:"balance_display"`
	Currency       money.Currency   `json:"currency"`
	CommissionRate *decimal.Decimal `json:"commission_rate,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func toResponse(acc *account.Account) accountResponse {
	resp := accountResponse{
		ID:             acc.ID,
		OwnerID:        acc.OwnerID,
		Name:           acc.Name,
		Bank:           acc.Bank,
		Alias:          acc.Alias,
		InitialBalance: acc.InitialBalance,
		Balance:        acc.Balance,
		BalanceDisplay: money.Format(acc.Balance, acc.Currency),
		Currency:       acc.Currency,
		CreatedAt:      acc.CreatedAt,
		UpdatedAt:      acc.UpdatedAt,
	}

	if acc.CommissionRate.Valid {
		resp.CommissionRate = &acc.CommissionRate.Decimal
	}

	return resp
}

func toResponseList(accounts []*account.Account) []accountResponse {
	resp := make([]accountResponse, len(accounts))
	for i, acc := range accounts {
		resp[i] = toResponse(acc)
	}

	return resp
}

type reconciliationResponse struct {
	AccountID      uuid.UUID       `json:"account_id"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Credits        decimal.Decimal `json:"credits"`
	Debits         decimal.Decimal `json:"debits"`
	Derived        decimal.Decimal `json:"derived"`
	Cached         decimal.Decimal `json:"cached"`
	Consistent     bool            `json:"consistent"`
}

func toReconciliationResponse(r *transaction.Reconciliation) reconciliationResponse {
	return reconciliationResponse{
		AccountID:      r.AccountID,
		InitialBalance: r.InitialBalance,
		Credits:        r.Credits,
		Debits:         r.Debits,
		Derived:        r.Derived,
		Cached:         r.Cached,
		Consistent:     r.Consistent(),
	}
}
