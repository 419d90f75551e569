package escrow

import (
	"time"

	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusHolding  = "holding"
	StatusReleased = "released"
	StatusRefunded = "refunded"
)

type Hold struct {
	ID         uuid.UUID       `json:"id"`
	OrderID    uuid.UUID       `json:"order_id"`
	SellerID   int64           `json:"seller_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	HoldUntil  time.Time       `json:"hold_until"`
	ReleasedAt *time.Time      `json:"released_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type ReleaseResult struct {
	OrderID    uuid.UUID       `json:"order_id"`
	SellerID   int64           `json:"seller_id"`
	BuyerID    int64           `json:"buyer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Commission decimal.Decimal `json:"commission"`
	Payout     decimal.Decimal `json:"payout"`
	ReleasedAt time.Time       `json:"released_at"`
	Entry      *ledger.Entry   `json:"entry,omitempty"`
}

func toHold(tx db.EscrowTransaction) (*Hold, error) {
	amount, err := decimal.NewFromString(tx.Amount)
	if err != nil {
		return nil, err
	}

	hold := &Hold{
		ID:        tx.ID,
		OrderID:   tx.OrderID,
		SellerID:  tx.SellerID,
		Amount:    amount,
		Status:    tx.Status,
		HoldUntil: tx.HoldUntil,
		CreatedAt: tx.CreatedAt,
	}
	if tx.ReleasedAt.Valid {
		releasedAt := tx.ReleasedAt.Time
		hold.ReleasedAt = &releasedAt
	}
	return hold, nil
}
