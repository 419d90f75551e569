package db

import (
	"context"

	"github.com/google/uuid"
)

// Querier is implemented by *Queries and by the in-memory fakes the service
// tests use.
type Querier interface {
	CreateSeller(ctx context.Context, arg CreateSellerParams) (Seller, error)
	GetSellerByEmail(ctx context.Context, email string) (Seller, error)
	GetSellerByID(ctx context.Context, id int64) (Seller, error)
	UpdateSellerBankDetails(ctx context.Context, arg UpdateSellerBankDetailsParams) (Seller, error)

	CreateSellerWallet(ctx context.Context, sellerID int64) (SellerWallet, error)
	GetSellerWallet(ctx context.Context, sellerID int64) (SellerWallet, error)
	GetSellerWalletForUpdate(ctx context.Context, sellerID int64) (SellerWallet, error)
	UpdateWalletBalance(ctx context.Context, arg UpdateWalletBalanceParams) (SellerWallet, error)
	ListSellerWallets(ctx context.Context) ([]SellerWallet, error)

	CreateWalletTransaction(ctx context.Context, arg CreateWalletTransactionParams) (WalletTransaction, error)
	ListWalletTransactionsBySeller(ctx context.Context, arg ListWalletTransactionsBySellerParams) ([]WalletTransaction, error)
	SumCompletedWalletTransactions(ctx context.Context, sellerID int64) (string, error)

	CreateEscrowTransaction(ctx context.Context, arg CreateEscrowTransactionParams) (EscrowTransaction, error)
	GetEscrowTransactionByOrder(ctx context.Context, orderID uuid.UUID) (EscrowTransaction, error)
	GetEscrowTransactionByOrderForUpdate(ctx context.Context, orderID uuid.UUID) (EscrowTransaction, error)
	UpdateEscrowTransactionStatus(ctx context.Context, arg UpdateEscrowTransactionStatusParams) (EscrowTransaction, error)
	UpdateEscrowHoldUntil(ctx context.Context, arg UpdateEscrowHoldUntilParams) (EscrowTransaction, error)
	ListDueEscrowTransactions(ctx context.Context, arg ListDueEscrowTransactionsParams) ([]EscrowTransaction, error)

	CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (Order, error)
	UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error)

	CreateWithdrawal(ctx context.Context, arg CreateWithdrawalParams) (WithdrawalRequest, error)
	GetWithdrawal(ctx context.Context, id uuid.UUID) (WithdrawalRequest, error)
	MarkWithdrawalCancelled(ctx context.Context, id uuid.UUID) (WithdrawalRequest, error)
	UpdateWithdrawalStatus(ctx context.Context, arg UpdateWithdrawalStatusParams) (WithdrawalRequest, error)
	ListWithdrawalsBySeller(ctx context.Context, arg ListWithdrawalsBySellerParams) ([]WithdrawalRequest, error)
	ListPendingWithdrawals(ctx context.Context) ([]WithdrawalRequest, error)

	CreateNotification(ctx context.Context, arg CreateNotificationParams) (Notification, error)
	ListNotificationsByUser(ctx context.Context, arg ListNotificationsByUserParams) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, arg MarkNotificationReadParams) error
}

var _ Querier = (*Queries)(nil)
