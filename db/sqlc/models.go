package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Seller struct {
	ID             int64          `json:"id"`
	FullName       string         `json:"full_name"`
	Email          string         `json:"email"`
	HashedPassword string         `json:"hashed_password"`
	Phone          sql.NullString `json:"phone"`
	BankVerified   bool           `json:"bank_verified"`
	BankName       sql.NullString `json:"bank_name"`
	BankCode       sql.NullString `json:"bank_code"`
	AccountNumber  sql.NullString `json:"account_number"`
	AccountName    sql.NullString `json:"account_name"`
	ExpoPushToken  sql.NullString `json:"expo_push_token"`
	FcmToken       sql.NullString `json:"fcm_token"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type SellerWallet struct {
	SellerID         int64     `json:"seller_id"`
	AvailableBalance string    `json:"available_balance"`
	PendingBalance   string    `json:"pending_balance"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Order struct {
	ID           uuid.UUID `json:"id"`
	SellerID     int64     `json:"seller_id"`
	BuyerID      int64     `json:"buyer_id"`
	Total        string    `json:"total"`
	DeliveryCode string    `json:"delivery_code"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type EscrowTransaction struct {
	ID         uuid.UUID    `json:"id"`
	OrderID    uuid.UUID    `json:"order_id"`
	SellerID   int64        `json:"seller_id"`
	Amount     string       `json:"amount"`
	Status     string       `json:"status"`
	HoldUntil  time.Time    `json:"hold_until"`
	ReleasedAt sql.NullTime `json:"released_at"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type WalletTransaction struct {
	ID           uuid.UUID      `json:"id"`
	SellerID     int64          `json:"seller_id"`
	OrderID      uuid.NullUUID  `json:"order_id"`
	Type         string         `json:"type"`
	Amount       string         `json:"amount"`
	BalanceAfter string         `json:"balance_after"`
	Status       string         `json:"status"`
	Description  sql.NullString `json:"description"`
	Reference    string         `json:"reference"`
	CreatedAt    time.Time      `json:"created_at"`
}

type WithdrawalRequest struct {
	ID            uuid.UUID      `json:"id"`
	SellerID      int64          `json:"seller_id"`
	Amount        string         `json:"amount"`
	BankName      string         `json:"bank_name"`
	BankCode      string         `json:"bank_code"`
	AccountNumber string         `json:"account_number"`
	AccountName   string         `json:"account_name"`
	Status        string         `json:"status"`
	FailureReason sql.NullString `json:"failure_reason"`
	Reference     string         `json:"reference"`
	CreatedAt     time.Time      `json:"created_at"`
	ProcessedAt   sql.NullTime   `json:"processed_at"`
}

type Notification struct {
	ID        int64                 `json:"id"`
	UserID    int64                 `json:"user_id"`
	Type      string                `json:"type"`
	Title     string                `json:"title"`
	Message   string                `json:"message"`
	Metadata  pqtype.NullRawMessage `json:"metadata"`
	Read      bool                  `json:"read"`
	CreatedAt time.Time             `json:"created_at"`
}
