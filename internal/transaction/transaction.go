package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies a money movement. The set is closed; Valid rejects anything else.
type Type string

const (
	TypeIncome            Type = "INCOME"
	TypeFixedExpense      Type = "FIXED_EXPENSE"
	TypeVariableExpense   Type = "VARIABLE_EXPENSE"
	TypeSavings           Type = "SAVINGS"
	TypeTransfer          Type = "TRANSFER"
	TypeCreditCardExpense Type = "CREDIT_CARD_EXPENSE"
)

func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeFixedExpense, TypeVariableExpense, TypeSavings, TypeTransfer, TypeCreditCardExpense:
		return true
	default:
		return false
	}
}

// RequiresDistinctAccounts reports whether From and To must differ for this type.
func (t Type) RequiresDistinctAccounts() bool {
	switch t {
	case TypeTransfer:
		return true
	case TypeIncome, TypeFixedExpense, TypeVariableExpense, TypeSavings, TypeCreditCardExpense:
		return false
	default:
		return false
	}
}

// Transaction moves Amount from FromAccountID to ToAccountID.
//
// When both ids are equal the transaction is a same-account posting and has no balance effect.
type Transaction struct {
	ID            uuid.UUID
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        decimal.Decimal
	Date          time.Time
	CategoryID    *uuid.UUID
	AssetID       *uuid.UUID
	Type          Type
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SameAccount reports whether the transaction posts against a single account.
func (t *Transaction) SameAccount() bool {
	return t.FromAccountID == t.ToAccountID
}

// Touches reports whether the transaction references accountID on either side.
func (t *Transaction) Touches(accountID uuid.UUID) bool {
	return t.FromAccountID == accountID || t.ToAccountID == accountID
}

// Reconciliation compares an account's cached balance with the one derived from its transactions.
type Reconciliation struct {
	AccountID      uuid.UUID
	InitialBalance decimal.Decimal
	Credits        decimal.Decimal
	Debits         decimal.Decimal
	Derived        decimal.Decimal
	Cached         decimal.Decimal
}

// Consistent reports whether the cached balance matches the transaction history.
func (r Reconciliation) Consistent() bool {
	return r.Derived.Equal(r.Cached)
}
