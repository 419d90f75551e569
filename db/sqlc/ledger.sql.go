package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const createWalletTransaction = `
INSERT INTO wallet_transactions (id, seller_id, order_id, type, amount, balance_after, status, description, reference)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, seller_id, order_id, type, amount, balance_after, status, description, reference, created_at
`

type CreateWalletTransactionParams struct {
	ID           uuid.UUID      `json:"id"`
	SellerID     int64          `json:"seller_id"`
	OrderID      uuid.NullUUID  `json:"order_id"`
	Type         string         `json:"type"`
	Amount       string         `json:"amount"`
	BalanceAfter string         `json:"balance_after"`
	Status       string         `json:"status"`
	Description  sql.NullString `json:"description"`
	Reference    string         `json:"reference"`
}

func (q *Queries) CreateWalletTransaction(ctx context.Context, arg CreateWalletTransactionParams) (WalletTransaction, error) {
	row := q.db.QueryRowContext(ctx, createWalletTransaction,
		arg.ID,
		arg.SellerID,
		arg.OrderID,
		arg.Type,
		arg.Amount,
		arg.BalanceAfter,
		arg.Status,
		arg.Description,
		arg.Reference,
	)
	var i WalletTransaction
	err := scanWalletTransaction(row, &i)
	return i, err
}

const listWalletTransactionsBySeller = `
SELECT id, seller_id, order_id, type, amount, balance_after, status, description, reference, created_at
FROM wallet_transactions
WHERE seller_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`

type ListWalletTransactionsBySellerParams struct {
	SellerID int64 `json:"seller_id"`
	Limit    int32 `json:"limit"`
	Offset   int32 `json:"offset"`
}

func (q *Queries) ListWalletTransactionsBySeller(ctx context.Context, arg ListWalletTransactionsBySellerParams) ([]WalletTransaction, error) {
	rows, err := q.db.QueryContext(ctx, listWalletTransactionsBySeller, arg.SellerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WalletTransaction
	for rows.Next() {
		var i WalletTransaction
		if err := rows.Scan(
			&i.ID,
			&i.SellerID,
			&i.OrderID,
			&i.Type,
			&i.Amount,
			&i.BalanceAfter,
			&i.Status,
			&i.Description,
			&i.Reference,
			&i.CreatedAt,
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

const sumCompletedWalletTransactions = `
SELECT COALESCE(SUM(CASE WHEN type = 'credit' THEN amount ELSE -amount END), 0)::text
FROM wallet_transactions
WHERE seller_id = $1 AND status = 'completed'
`

// SumCompletedWalletTransactions replays the ledger for one seller. The
// reconciliation job compares this against the cached wallet balance.
func (q *Queries) SumCompletedWalletTransactions(ctx context.Context, sellerID int64) (string, error) {
	row := q.db.QueryRowContext(ctx, sumCompletedWalletTransactions, sellerID)
	var sum string
	err := row.Scan(&sum)
	return sum, err
}

func scanWalletTransaction(row *sql.Row, i *WalletTransaction) error {
	return row.Scan(
		&i.ID,
		&i.SellerID,
		&i.OrderID,
		&i.Type,
		&i.Amount,
		&i.BalanceAfter,
		&i.Status,
		&i.Description,
		&i.Reference,
		&i.CreatedAt,
	)
}
