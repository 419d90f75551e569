package db

import (
	"context"
	"database/sql"
)

const createSellerWallet = `
INSERT INTO seller_wallets (seller_id, available_balance, pending_balance)
VALUES ($1, 0, 0)
RETURNING seller_id, available_balance, pending_balance, created_at, updated_at
`

func (q *Queries) CreateSellerWallet(ctx context.Context, sellerID int64) (SellerWallet, error) {
	row := q.db.QueryRowContext(ctx, createSellerWallet, sellerID)
	var i SellerWallet
	err := scanSellerWallet(row, &i)
	return i, err
}

const getSellerWallet = `
SELECT seller_id, available_balance, pending_balance, created_at, updated_at
FROM seller_wallets
WHERE seller_id = $1
`

func (q *Queries) GetSellerWallet(ctx context.Context, sellerID int64) (SellerWallet, error) {
	row := q.db.QueryRowContext(ctx, getSellerWallet, sellerID)
	var i SellerWallet
	err := scanSellerWallet(row, &i)
	return i, err
}

const getSellerWalletForUpdate = `
SELECT seller_id, available_balance, pending_balance, created_at, updated_at
FROM seller_wallets
WHERE seller_id = $1
FOR UPDATE
`

// GetSellerWalletForUpdate takes a row lock on the wallet. Every balance
// mutation must read through this inside a transaction so that concurrent
// writers against the same seller serialize.
func (q *Queries) GetSellerWalletForUpdate(ctx context.Context, sellerID int64) (SellerWallet, error) {
	row := q.db.QueryRowContext(ctx, getSellerWalletForUpdate, sellerID)
	var i SellerWallet
	err := scanSellerWallet(row, &i)
	return i, err
}

const updateWalletBalance = `
UPDATE seller_wallets
SET available_balance = $2,
    pending_balance = $3,
    updated_at = now()
WHERE seller_id = $1
RETURNING seller_id, available_balance, pending_balance, created_at, updated_at
`

type UpdateWalletBalanceParams struct {
	SellerID         int64  `json:"seller_id"`
	AvailableBalance string `json:"available_balance"`
	PendingBalance   string `json:"pending_balance"`
}

func (q *Queries) UpdateWalletBalance(ctx context.Context, arg UpdateWalletBalanceParams) (SellerWallet, error) {
	row := q.db.QueryRowContext(ctx, updateWalletBalance, arg.SellerID, arg.AvailableBalance, arg.PendingBalance)
	var i SellerWallet
	err := scanSellerWallet(row, &i)
	return i, err
}

const listSellerWallets = `
SELECT seller_id, available_balance, pending_balance, created_at, updated_at
FROM seller_wallets
ORDER BY seller_id
`

func (q *Queries) ListSellerWallets(ctx context.Context) ([]SellerWallet, error) {
	rows, err := q.db.QueryContext(ctx, listSellerWallets)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SellerWallet
	for rows.Next() {
		var i SellerWallet
		if err := rows.Scan(
			&i.SellerID,
			&i.AvailableBalance,
			&i.PendingBalance,
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

func scanSellerWallet(row *sql.Row, i *SellerWallet) error {
	return row.Scan(
		&i.SellerID,
		&i.AvailableBalance,
		&i.PendingBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
}
