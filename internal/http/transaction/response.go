package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type transactionResponse struct {
	ID            uuid.UUID        `json:"id"`
	FromAccountID uuid.UUID        `json:"from_account_id"`
	ToAccountID   uuid.UUID        `json:"to_account_id"`
	Amount        decimal.Decimal  `json:"amount"`
	Type          transaction.Type `json:"type"`
	Description   string           `json:"description"`
	Date          string           `json:"date"`
	CategoryID    *uuid.UUID       `json:"category_id,omitempty"`
	AssetID       *uuid.UUID       `json:"asset_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		FromAccountID: tx.FromAccountID,
		ToAccountID:   tx.ToAccountID,
		Amount:        tx.Amount,
		Type:          tx.Type,
		Description:   tx.Description,
		Date:          tx.Date.Format(time.DateOnly),
		CategoryID:    tx.CategoryID,
		AssetID:       tx.AssetID,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
