package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/money"
)

// Account is a bank, cash or card account belonging to one owner.
//
// Balance is a cached total maintained by the transaction ledger; nothing in this package
// writes it after creation.
type Account struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	Bank           string
	Alias          string
	InitialBalance decimal.Decimal
	Balance        decimal.Decimal
	Currency       money.Currency
	CommissionRate decimal.NullDecimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
