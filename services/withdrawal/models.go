package withdrawal

import (
	"time"

	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// BankDetails is validated at the boundary instead of threading loose form
// fields through the core.
type BankDetails struct {
	BankName      string `json:"bank_name" validate:"required"`
	BankCode      string `json:"bank_code" validate:"required,numeric"`
	AccountNumber string `json:"account_number" validate:"required,numeric,len=10"`
	AccountName   string `json:"account_name" validate:"required"`
}

type Request struct {
	ID            uuid.UUID       `json:"id"`
	SellerID      int64           `json:"seller_id"`
	Amount        decimal.Decimal `json:"amount"`
	BankDetails   BankDetails     `json:"bank_details"`
	Status        string          `json:"status"`
	FailureReason string          `json:"failure_reason,omitempty"`
	Reference     string          `json:"reference"`
	CreatedAt     time.Time       `json:"created_at"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
}

type CancelResult struct {
	ID             uuid.UUID       `json:"id"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
}

func toRequest(row db.WithdrawalRequest) (*Request, error) {
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return nil, err
	}

	req := &Request{
		ID:       row.ID,
		SellerID: row.SellerID,
		Amount:   amount,
		BankDetails: BankDetails{
			BankName:      row.BankName,
			BankCode:      row.BankCode,
			AccountNumber: row.AccountNumber,
			AccountName:   row.AccountName,
		},
		Status:        row.Status,
		FailureReason: row.FailureReason.String,
		Reference:     row.Reference,
		CreatedAt:     row.CreatedAt,
	}
	if row.ProcessedAt.Valid {
		processedAt := row.ProcessedAt.Time
		req.ProcessedAt = &processedAt
	}
	return req, nil
}
