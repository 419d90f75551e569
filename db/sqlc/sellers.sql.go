package db

import (
	"context"
	"database/sql"
)

const createSeller = `
INSERT INTO sellers (full_name, email, hashed_password, phone)
VALUES ($1, $2, $3, $4)
RETURNING id, full_name, email, hashed_password, phone, bank_verified, bank_name, bank_code, account_number, account_name, expo_push_token, fcm_token, created_at, updated_at
`

type CreateSellerParams struct {
	FullName       string         `json:"full_name"`
	Email          string         `json:"email"`
	HashedPassword string         `json:"hashed_password"`
	Phone          sql.NullString `json:"phone"`
}

func (q *Queries) CreateSeller(ctx context.Context, arg CreateSellerParams) (Seller, error) {
	row := q.db.QueryRowContext(ctx, createSeller,
		arg.FullName,
		arg.Email,
		arg.HashedPassword,
		arg.Phone,
	)
	var i Seller
	err := scanSeller(row, &i)
	return i, err
}

const getSellerByEmail = `
SELECT id, full_name, email, hashed_password, phone, bank_verified, bank_name, bank_code, account_number, account_name, expo_push_token, fcm_token, created_at, updated_at
FROM sellers
WHERE email = $1
`

func (q *Queries) GetSellerByEmail(ctx context.Context, email string) (Seller, error) {
	row := q.db.QueryRowContext(ctx, getSellerByEmail, email)
	var i Seller
	err := scanSeller(row, &i)
	return i, err
}

const getSellerByID = `
SELECT id, full_name, email, hashed_password, phone, bank_verified, bank_name, bank_code, account_number, account_name, expo_push_token, fcm_token, created_at, updated_at
FROM sellers
WHERE id = $1
`

func (q *Queries) GetSellerByID(ctx context.Context, id int64) (Seller, error) {
	row := q.db.QueryRowContext(ctx, getSellerByID, id)
	var i Seller
	err := scanSeller(row, &i)
	return i, err
}

const updateSellerBankDetails = `
UPDATE sellers
SET bank_verified = $2,
    bank_name = $3,
    bank_code = $4,
    account_number = $5,
    account_name = $6,
    updated_at = now()
WHERE id = $1
RETURNING id, full_name, email, hashed_password, phone, bank_verified, bank_name, bank_code, account_number, account_name, expo_push_token, fcm_token, created_at, updated_at
`

type UpdateSellerBankDetailsParams struct {
	ID            int64          `json:"id"`
	BankVerified  bool           `json:"bank_verified"`
	BankName      sql.NullString `json:"bank_name"`
	BankCode      sql.NullString `json:"bank_code"`
	AccountNumber sql.NullString `json:"account_number"`
	AccountName   sql.NullString `json:"account_name"`
}

func (q *Queries) UpdateSellerBankDetails(ctx context.Context, arg UpdateSellerBankDetailsParams) (Seller, error) {
	row := q.db.QueryRowContext(ctx, updateSellerBankDetails,
		arg.ID,
		arg.BankVerified,
		arg.BankName,
		arg.BankCode,
		arg.AccountNumber,
		arg.AccountName,
	)
	var i Seller
	err := scanSeller(row, &i)
	return i, err
}

func scanSeller(row *sql.Row, i *Seller) error {
	return row.Scan(
		&i.ID,
		&i.FullName,
		&i.Email,
		&i.HashedPassword,
		&i.Phone,
		&i.BankVerified,
		&i.BankName,
		&i.BankCode,
		&i.AccountNumber,
		&i.AccountName,
		&i.ExpoPushToken,
		&i.FcmToken,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
}
