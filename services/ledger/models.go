package ledger

import (
	"time"

	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypeCredit = "credit"
	TypeDebit  = "debit"

	StatusCompleted = "completed"
)

type Entry struct {
	ID           uuid.UUID       `json:"id"`
	SellerID     int64           `json:"seller_id"`
	OrderID      *uuid.UUID      `json:"order_id,omitempty"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Status       string          `json:"status"`
	Description  string          `json:"description"`
	Reference    string          `json:"reference"`
	CreatedAt    time.Time       `json:"created_at"`
}

type Balance struct {
	Available decimal.Decimal `json:"available"`
	Pending   decimal.Decimal `json:"pending"`
}

// EntryOptions carries the context of a balance mutation. PendingDelta is
// applied to the informational pending balance in the same transaction,
// used when an escrow release moves held funds into the spendable column.
type EntryOptions struct {
	OrderID      *uuid.UUID
	Description  string
	Reference    string
	PendingDelta decimal.Decimal
}

func toEntry(tx db.WalletTransaction) (*Entry, error) {
	amount, err := decimal.NewFromString(tx.Amount)
	if err != nil {
		return nil, err
	}
	balanceAfter, err := decimal.NewFromString(tx.BalanceAfter)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:           tx.ID,
		SellerID:     tx.SellerID,
		Type:         tx.Type,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Status:       tx.Status,
		Description:  tx.Description.String,
		Reference:    tx.Reference,
		CreatedAt:    tx.CreatedAt,
	}
	if tx.OrderID.Valid {
		orderID := tx.OrderID.UUID
		entry.OrderID = &orderID
	}
	return entry, nil
}
