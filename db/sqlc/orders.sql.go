package db

import (
	"context"

	"github.com/google/uuid"
)

const createOrder = `
INSERT INTO orders (id, seller_id, buyer_id, total, delivery_code, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, seller_id, buyer_id, total, delivery_code, status, created_at, updated_at
`

type CreateOrderParams struct {
	ID           uuid.UUID `json:"id"`
	SellerID     int64     `json:"seller_id"`
	BuyerID      int64     `json:"buyer_id"`
	Total        string    `json:"total"`
	DeliveryCode string    `json:"delivery_code"`
	Status       string    `json:"status"`
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRowContext(ctx, createOrder,
		arg.ID,
		arg.SellerID,
		arg.BuyerID,
		arg.Total,
		arg.DeliveryCode,
		arg.Status,
	)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.SellerID,
		&i.BuyerID,
		&i.Total,
		&i.DeliveryCode,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getOrder = `
SELECT id, seller_id, buyer_id, total, delivery_code, status, created_at, updated_at
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRowContext(ctx, getOrder, id)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.SellerID,
		&i.BuyerID,
		&i.Total,
		&i.DeliveryCode,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateOrderStatus = `
UPDATE orders
SET status = $2,
    updated_at = now()
WHERE id = $1
RETURNING id, seller_id, buyer_id, total, delivery_code, status, created_at, updated_at
`

type UpdateOrderStatusParams struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRowContext(ctx, updateOrderStatus, arg.ID, arg.Status)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.SellerID,
		&i.BuyerID,
		&i.Total,
		&i.DeliveryCode,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
