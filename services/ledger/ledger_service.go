package ledger

import (
	"context"
	"database/sql"
	"fmt"

	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/monitoring/logging"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the slice of db.Store the ledger needs.
type Store interface {
	db.Querier
	ExecTx(ctx context.Context, fq func(q db.Querier) error) error
}

// Service is the single source of truth for balance mutation. Every credit
// and debit runs as one transaction: lock the wallet row, validate, write
// the new balance and append the ledger entry. The ledger is authoritative;
// the wallet balance column is a cached projection of it.
type Service struct {
	store  Store
	logger *logging.Logger
}

func NewLedgerService(store Store, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

func (s *Service) Credit(ctx context.Context, sellerID int64, amount decimal.Decimal, opts EntryOptions) (*Entry, error) {
	var entry *Entry
	err := s.store.ExecTx(ctx, func(q db.Querier) error {
		var applyErr error
		entry, applyErr = s.Apply(ctx, q, sellerID, TypeCredit, amount, opts)
		return applyErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) Debit(ctx context.Context, sellerID int64, amount decimal.Decimal, opts EntryOptions) (*Entry, error) {
	var entry *Entry
	err := s.store.ExecTx(ctx, func(q db.Querier) error {
		var applyErr error
		entry, applyErr = s.Apply(ctx, q, sellerID, TypeDebit, amount, opts)
		return applyErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Apply performs one balance mutation on a caller-supplied querier, so
// callers that need the mutation inside a wider transaction (the escrow
// release) can join it. The querier must already be transactional: the
// FOR UPDATE read is what serializes concurrent writers per seller.
func (s *Service) Apply(ctx context.Context, q db.Querier, sellerID int64, entryType string, amount decimal.Decimal, opts EntryOptions) (*Entry, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	wallet, err := q.GetSellerWalletForUpdate(ctx, sellerID)
	if err == sql.ErrNoRows {
		return nil, ErrWalletNotFound
	} else if err != nil {
		return nil, fmt.Errorf("lock wallet: %w", err)
	}

	available, err := decimal.NewFromString(wallet.AvailableBalance)
	if err != nil {
		return nil, fmt.Errorf("parse available balance: %w", err)
	}
	pending, err := decimal.NewFromString(wallet.PendingBalance)
	if err != nil {
		return nil, fmt.Errorf("parse pending balance: %w", err)
	}

	var newBalance decimal.Decimal
	switch entryType {
	case TypeCredit:
		newBalance = available.Add(amount)
	case TypeDebit:
		if amount.GreaterThan(available) {
			return nil, ErrInsufficientBalance
		}
		newBalance = available.Sub(amount)
	default:
		return nil, fmt.Errorf("unknown ledger entry type: %v", entryType)
	}

	newPending := pending.Add(opts.PendingDelta)

	if _, err := q.UpdateWalletBalance(ctx, db.UpdateWalletBalanceParams{
		SellerID:         sellerID,
		AvailableBalance: newBalance.StringFixed(2),
		PendingBalance:   newPending.StringFixed(2),
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}

	reference := opts.Reference
	if reference == "" {
		reference, err = utils.GenerateReference("TXN")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
		}
	}

	orderID := uuid.NullUUID{}
	if opts.OrderID != nil {
		orderID = uuid.NullUUID{UUID: *opts.OrderID, Valid: true}
	}

	row, err := q.CreateWalletTransaction(ctx, db.CreateWalletTransactionParams{
		ID:           uuid.New(),
		SellerID:     sellerID,
		OrderID:      orderID,
		Type:         entryType,
		Amount:       amount.StringFixed(2),
		BalanceAfter: newBalance.StringFixed(2),
		Status:       StatusCompleted,
		Description:  sql.NullString{String: opts.Description, Valid: opts.Description != ""},
		Reference:    reference,
	})
	if err != nil {
		// The surrounding transaction rolls the balance update back, so
		// the projection and the ledger never diverge.
		return nil, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}

	return toEntry(row)
}

// AdjustPending moves the informational pending column without touching the
// spendable balance or the ledger. Escrow holds use it when funds enter or
// leave the held state.
func (s *Service) AdjustPending(ctx context.Context, q db.Querier, sellerID int64, delta decimal.Decimal) error {
	wallet, err := q.GetSellerWalletForUpdate(ctx, sellerID)
	if err == sql.ErrNoRows {
		return ErrWalletNotFound
	} else if err != nil {
		return fmt.Errorf("lock wallet: %w", err)
	}

	pending, err := decimal.NewFromString(wallet.PendingBalance)
	if err != nil {
		return fmt.Errorf("parse pending balance: %w", err)
	}

	_, err = q.UpdateWalletBalance(ctx, db.UpdateWalletBalanceParams{
		SellerID:         sellerID,
		AvailableBalance: wallet.AvailableBalance,
		PendingBalance:   pending.Add(delta).StringFixed(2),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}
	return nil
}

func (s *Service) Balance(ctx context.Context, sellerID int64) (*Balance, error) {
	wallet, err := s.store.GetSellerWallet(ctx, sellerID)
	if err == sql.ErrNoRows {
		return nil, ErrWalletNotFound
	} else if err != nil {
		return nil, err
	}

	available, err := decimal.NewFromString(wallet.AvailableBalance)
	if err != nil {
		return nil, fmt.Errorf("parse available balance: %w", err)
	}
	pending, err := decimal.NewFromString(wallet.PendingBalance)
	if err != nil {
		return nil, fmt.Errorf("parse pending balance: %w", err)
	}

	return &Balance{Available: available, Pending: pending}, nil
}

func (s *Service) History(ctx context.Context, sellerID int64, limit, offset int32) ([]*Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.store.ListWalletTransactionsBySeller(ctx, db.ListWalletTransactionsBySellerParams{
		SellerID: sellerID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := toEntry(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
