package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const createEscrowTransaction = `
INSERT INTO escrow_transactions (id, order_id, seller_id, amount, status, hold_until)
VALUES ($1, $2, $3, $4, 'holding', $5)
RETURNING id, order_id, seller_id, amount, status, hold_until, released_at, created_at, updated_at
`

type CreateEscrowTransactionParams struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	SellerID  int64     `json:"seller_id"`
	Amount    string    `json:"amount"`
	HoldUntil time.Time `json:"hold_until"`
}

func (q *Queries) CreateEscrowTransaction(ctx context.Context, arg CreateEscrowTransactionParams) (EscrowTransaction, error) {
	row := q.db.QueryRowContext(ctx, createEscrowTransaction,
		arg.ID,
		arg.OrderID,
		arg.SellerID,
		arg.Amount,
		arg.HoldUntil,
	)
	var i EscrowTransaction
	err := scanEscrowTransaction(row, &i)
	return i, err
}

const getEscrowTransactionByOrder = `
SELECT id, order_id, seller_id, amount, status, hold_until, released_at, created_at, updated_at
FROM escrow_transactions
WHERE order_id = $1
ORDER BY created_at DESC
LIMIT 1
`

func (q *Queries) GetEscrowTransactionByOrder(ctx context.Context, orderID uuid.UUID) (EscrowTransaction, error) {
	row := q.db.QueryRowContext(ctx, getEscrowTransactionByOrder, orderID)
	var i EscrowTransaction
	err := scanEscrowTransaction(row, &i)
	return i, err
}

const getEscrowTransactionByOrderForUpdate = `
SELECT id, order_id, seller_id, amount, status, hold_until, released_at, created_at, updated_at
FROM escrow_transactions
WHERE order_id = $1
ORDER BY created_at DESC
LIMIT 1
FOR UPDATE
`

// GetEscrowTransactionByOrderForUpdate locks the hold row. Release paths
// (code confirmation and the due sweep) both read through this so the
// terminal-state guard cannot race.
func (q *Queries) GetEscrowTransactionByOrderForUpdate(ctx context.Context, orderID uuid.UUID) (EscrowTransaction, error) {
	row := q.db.QueryRowContext(ctx, getEscrowTransactionByOrderForUpdate, orderID)
	var i EscrowTransaction
	err := scanEscrowTransaction(row, &i)
	return i, err
}

const updateEscrowTransactionStatus = `
UPDATE escrow_transactions
SET status = $2,
    released_at = $3,
    updated_at = now()
WHERE id = $1
RETURNING id, order_id, seller_id, amount, status, hold_until, released_at, created_at, updated_at
`

type UpdateEscrowTransactionStatusParams struct {
	ID         uuid.UUID    `json:"id"`
	Status     string       `json:"status"`
	ReleasedAt sql.NullTime `json:"released_at"`
}

func (q *Queries) UpdateEscrowTransactionStatus(ctx context.Context, arg UpdateEscrowTransactionStatusParams) (EscrowTransaction, error) {
	row := q.db.QueryRowContext(ctx, updateEscrowTransactionStatus, arg.ID, arg.Status, arg.ReleasedAt)
	var i EscrowTransaction
	err := scanEscrowTransaction(row, &i)
	return i, err
}

const updateEscrowHoldUntil = `
UPDATE escrow_transactions
SET hold_until = $2,
    updated_at = now()
WHERE id = $1 AND status = 'holding'
RETURNING id, order_id, seller_id, amount, status, hold_until, released_at, created_at, updated_at
`

type UpdateEscrowHoldUntilParams struct {
	ID        uuid.UUID `json:"id"`
	HoldUntil time.Time `json:"hold_until"`
}

func (q *Queries) UpdateEscrowHoldUntil(ctx context.Context, arg UpdateEscrowHoldUntilParams) (EscrowTransaction, error) {
	row := q.db.QueryRowContext(ctx, updateEscrowHoldUntil, arg.ID, arg.HoldUntil)
	var i EscrowTransaction
	err := scanEscrowTransaction(row, &i)
	return i, err
}

const listDueEscrowTransactions = `
SELECT id, order_id, seller_id, amount, status, hold_until, released_at, created_at, updated_at
FROM escrow_transactions
WHERE status = 'holding' AND hold_until <= $1
ORDER BY hold_until
LIMIT $2
`

type ListDueEscrowTransactionsParams struct {
	HoldUntil time.Time `json:"hold_until"`
	Limit     int32     `json:"limit"`
}

func (q *Queries) ListDueEscrowTransactions(ctx context.Context, arg ListDueEscrowTransactionsParams) ([]EscrowTransaction, error) {
	rows, err := q.db.QueryContext(ctx, listDueEscrowTransactions, arg.HoldUntil, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []EscrowTransaction
	for rows.Next() {
		var i EscrowTransaction
		if err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.SellerID,
			&i.Amount,
			&i.Status,
			&i.HoldUntil,
			&i.ReleasedAt,
			&i.CreatedAt,
			&i.UpdatedAt,
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

func scanEscrowTransaction(row *sql.Row, i *EscrowTransaction) error {
	return row.Scan(
		&i.ID,
		&i.OrderID,
		&i.SellerID,
		&i.Amount,
		&i.Status,
		&i.HoldUntil,
		&i.ReleasedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
}
