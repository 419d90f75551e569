package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const createWithdrawal = `
INSERT INTO withdrawal_requests (id, seller_id, amount, bank_name, bank_code, account_number, account_name, status, reference)
VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', $8)
RETURNING id, seller_id, amount, bank_name, bank_code, account_number, account_name, status, failure_reason, reference, created_at, processed_at
`

type CreateWithdrawalParams struct {
	ID            uuid.UUID `json:"id"`
	SellerID      int64     `json:"seller_id"`
	Amount        string    `json:"amount"`
	BankName      string    `json:"bank_name"`
	BankCode      string    `json:"bank_code"`
	AccountNumber string    `json:"account_number"`
	AccountName   string    `json:"account_name"`
	Reference     string    `json:"reference"`
}

func (q *Queries) CreateWithdrawal(ctx context.Context, arg CreateWithdrawalParams) (WithdrawalRequest, error) {
	row := q.db.QueryRowContext(ctx, createWithdrawal,
		arg.ID,
		arg.SellerID,
		arg.Amount,
		arg.BankName,
		arg.BankCode,
		arg.AccountNumber,
		arg.AccountName,
		arg.Reference,
	)
	var i WithdrawalRequest
	err := scanWithdrawal(row, &i)
	return i, err
}

const getWithdrawal = `
SELECT id, seller_id, amount, bank_name, bank_code, account_number, account_name, status, failure_reason, reference, created_at, processed_at
FROM withdrawal_requests
WHERE id = $1
`

func (q *Queries) GetWithdrawal(ctx context.Context, id uuid.UUID) (WithdrawalRequest, error) {
	row := q.db.QueryRowContext(ctx, getWithdrawal, id)
	var i WithdrawalRequest
	err := scanWithdrawal(row, &i)
	return i, err
}

const markWithdrawalCancelled = `
UPDATE withdrawal_requests
SET status = 'cancelled',
    processed_at = now()
WHERE id = $1 AND status = 'pending'
RETURNING id, seller_id, amount, bank_name, bank_code, account_number, account_name, status, failure_reason, reference, created_at, processed_at
`

// MarkWithdrawalCancelled flips pending to cancelled. The status predicate
// makes the flip conditional, so a request the operator has already picked
// up comes back as sql.ErrNoRows.
func (q *Queries) MarkWithdrawalCancelled(ctx context.Context, id uuid.UUID) (WithdrawalRequest, error) {
	row := q.db.QueryRowContext(ctx, markWithdrawalCancelled, id)
	var i WithdrawalRequest
	err := scanWithdrawal(row, &i)
	return i, err
}

const updateWithdrawalStatus = `
UPDATE withdrawal_requests
SET status = $2,
    failure_reason = $3,
    processed_at = now()
WHERE id = $1 AND status = ANY($4::text[])
RETURNING id, seller_id, amount, bank_name, bank_code, account_number, account_name, status, failure_reason, reference, created_at, processed_at
`

type UpdateWithdrawalStatusParams struct {
	ID            uuid.UUID      `json:"id"`
	Status        string         `json:"status"`
	FailureReason sql.NullString `json:"failure_reason"`
	FromStatuses  []string       `json:"from_statuses"`
}

func (q *Queries) UpdateWithdrawalStatus(ctx context.Context, arg UpdateWithdrawalStatusParams) (WithdrawalRequest, error) {
	row := q.db.QueryRowContext(ctx, updateWithdrawalStatus, arg.ID, arg.Status, arg.FailureReason, pqStringArray(arg.FromStatuses))
	var i WithdrawalRequest
	err := scanWithdrawal(row, &i)
	return i, err
}

const listWithdrawalsBySeller = `
SELECT id, seller_id, amount, bank_name, bank_code, account_number, account_name, status, failure_reason, reference, created_at, processed_at
FROM withdrawal_requests
WHERE seller_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`

type ListWithdrawalsBySellerParams struct {
	SellerID int64 `json:"seller_id"`
	Limit    int32 `json:"limit"`
	Offset   int32 `json:"offset"`
}

func (q *Queries) ListWithdrawalsBySeller(ctx context.Context, arg ListWithdrawalsBySellerParams) ([]WithdrawalRequest, error) {
	rows, err := q.db.QueryContext(ctx, listWithdrawalsBySeller, arg.SellerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWithdrawals(rows)
}

const listPendingWithdrawals = `
SELECT id, seller_id, amount, bank_name, bank_code, account_number, account_name, status, failure_reason, reference, created_at, processed_at
FROM withdrawal_requests
WHERE status IN ('pending', 'processing')
ORDER BY created_at
`

func (q *Queries) ListPendingWithdrawals(ctx context.Context) ([]WithdrawalRequest, error) {
	rows, err := q.db.QueryContext(ctx, listPendingWithdrawals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWithdrawals(rows)
}

func collectWithdrawals(rows *sql.Rows) ([]WithdrawalRequest, error) {
	var items []WithdrawalRequest
	for rows.Next() {
		var i WithdrawalRequest
		if err := rows.Scan(
			&i.ID,
			&i.SellerID,
			&i.Amount,
			&i.BankName,
			&i.BankCode,
			&i.AccountNumber,
			&i.AccountName,
			&i.Status,
			&i.FailureReason,
			&i.Reference,
			&i.CreatedAt,
			&i.ProcessedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanWithdrawal(row *sql.Row, i *WithdrawalRequest) error {
	return row.Scan(
		&i.ID,
		&i.SellerID,
		&i.Amount,
		&i.BankName,
		&i.BankCode,
		&i.AccountNumber,
		&i.AccountName,
		&i.Status,
		&i.FailureReason,
		&i.Reference,
		&i.CreatedAt,
		&i.ProcessedAt,
	)
}
