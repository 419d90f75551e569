package escrow

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/ledger"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/monitoring/logging"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/notification"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/notification/notification_channel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Store interface {
	db.Querier
	ExecTx(ctx context.Context, fq func(q db.Querier) error) error
}

// Ledger is the slice of the ledger service the escrow engine drives.
type Ledger interface {
	Apply(ctx context.Context, q db.Querier, sellerID int64, entryType string, amount decimal.Decimal, opts ledger.EntryOptions) (*ledger.Entry, error)
	AdjustPending(ctx context.Context, q db.Querier, sellerID int64, delta decimal.Decimal) error
}

type Notifier interface {
	Emit(ctx context.Context, userID int64, event notification.Event)
}

// Service drives the per-order state machine none -> holding -> {released,
// refunded}. Both release paths (buyer code confirmation and the due sweep)
// funnel through the same locked transaction, so the terminal states are
// one-way and a release can never double-credit the seller.
type Service struct {
	store          Store
	ledger         Ledger
	notifier       Notifier
	logger         *logging.Logger
	commissionRate decimal.Decimal
	standardHold   time.Duration
	fastHold       time.Duration
}

type Config struct {
	CommissionRate float64
	HoldDays       int
	FastHoldHours  int
}

func NewEscrowService(store Store, ledgerService Ledger, notifier Notifier, logger *logging.Logger, config Config) *Service {
	return &Service{
		store:          store,
		ledger:         ledgerService,
		notifier:       notifier,
		logger:         logger,
		commissionRate: decimal.NewFromFloat(config.CommissionRate),
		standardHold:   time.Duration(config.HoldDays) * 24 * time.Hour,
		fastHold:       time.Duration(config.FastHoldHours) * time.Hour,
	}
}

// StandardHold is the default post-confirmation window. FastHold is the
// shorter window for sellers on the fast payout tier.
func (s *Service) StandardHold() time.Duration { return s.standardHold }
func (s *Service) FastHold() time.Duration     { return s.fastHold }

// OpenHold earmarks an order's funds for the seller once the order is paid.
// At most one live hold may exist per order; the partial unique index in the
// schema backs up the in-transaction check.
func (s *Service) OpenHold(ctx context.Context, orderID uuid.UUID, sellerID int64, amount decimal.Decimal, holdFor time.Duration) (*Hold, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var hold *Hold
	err := s.store.ExecTx(ctx, func(q db.Querier) error {
		existing, err := q.GetEscrowTransactionByOrderForUpdate(ctx, orderID)
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("check existing hold: %w", err)
		}
		if err == nil && existing.Status == StatusHolding {
			return ErrDuplicateHold
		}

		row, err := q.CreateEscrowTransaction(ctx, db.CreateEscrowTransactionParams{
			ID:        uuid.New(),
			OrderID:   orderID,
			SellerID:  sellerID,
			Amount:    amount.StringFixed(2),
			HoldUntil: time.Now().Add(holdFor),
		})
		if err != nil {
			return fmt.Errorf("create hold: %w", err)
		}

		if err := s.ledger.AdjustPending(ctx, q, sellerID, amount); err != nil {
			return err
		}

		hold, err = toHold(row)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(fmt.Sprintf("opened escrow hold %v for order %v", hold.ID, orderID))
	return hold, nil
}

// GetHold returns the escrow state for an order.
func (s *Service) GetHold(ctx context.Context, orderID uuid.UUID) (*Hold, error) {
	row, err := s.store.GetEscrowTransactionByOrder(ctx, orderID)
	if err == sql.ErrNoRows {
		return nil, ErrHoldNotFound
	} else if err != nil {
		return nil, err
	}
	return toHold(row)
}

// ConfirmDelivery releases the hold when the buyer-supplied code matches.
// The match is case-sensitive and exact. Retrying a released order reports
// ErrAlreadyReleased without touching the wallet.
func (s *Service) ConfirmDelivery(ctx context.Context, orderID uuid.UUID, suppliedCode, expectedCode string) (*ReleaseResult, error) {
	if suppliedCode == "" || suppliedCode != expectedCode {
		return nil, ErrInvalidCode
	}

	return s.release(ctx, orderID, "delivery confirmed")
}

// ExtendHold pushes the release date out while a dispute is open. Settled
// holds are left alone.
func (s *Service) ExtendHold(ctx context.Context, orderID uuid.UUID, newHoldUntil time.Time) error {
	return s.store.ExecTx(ctx, func(q db.Querier) error {
		existing, err := q.GetEscrowTransactionByOrderForUpdate(ctx, orderID)
		if err == sql.ErrNoRows {
			return ErrHoldNotFound
		} else if err != nil {
			return fmt.Errorf("lock hold: %w", err)
		}

		if existing.Status != StatusHolding {
			return nil
		}

		_, err = q.UpdateEscrowHoldUntil(ctx, db.UpdateEscrowHoldUntilParams{
			ID:        existing.ID,
			HoldUntil: newHoldUntil,
		})
		if err != nil {
			return fmt.Errorf("extend hold: %w", err)
		}
		return nil
	})
}

// AutoReleaseDue releases every hold whose window has lapsed. Trust is
// time-based here, so no code check. Each release takes the same row lock
// and terminal-state guard as ConfirmDelivery, which makes concurrent
// sweeps (or a sweep racing a buyer confirmation) safe: the loser of the
// race sees a settled hold and moves on.
func (s *Service) AutoReleaseDue(ctx context.Context) (int, error) {
	due, err := s.store.ListDueEscrowTransactions(ctx, db.ListDueEscrowTransactionsParams{
		HoldUntil: time.Now(),
		Limit:     100,
	})
	if err != nil {
		return 0, fmt.Errorf("list due holds: %w", err)
	}

	released := 0
	for _, tx := range due {
		if ctx.Err() != nil {
			return released, ctx.Err()
		}

		_, err := s.release(ctx, tx.OrderID, "hold window lapsed")
		if err == ErrAlreadyReleased {
			continue
		} else if err != nil {
			s.logger.Error(fmt.Sprintf("auto release failed for order %v: %v", tx.OrderID, err))
			continue
		}
		released++
	}

	return released, nil
}

func (s *Service) release(ctx context.Context, orderID uuid.UUID, reason string) (*ReleaseResult, error) {
	var result *ReleaseResult
	var seller db.Seller

	err := s.store.ExecTx(ctx, func(q db.Querier) error {
		esc, err := q.GetEscrowTransactionByOrderForUpdate(ctx, orderID)
		if err == sql.ErrNoRows {
			return ErrHoldNotFound
		} else if err != nil {
			return fmt.Errorf("lock hold: %w", err)
		}

		// Terminal-state guard: this is what makes release idempotent
		// under retry and safe under the sweep race.
		if esc.Status != StatusHolding {
			return ErrAlreadyReleased
		}

		amount, err := decimal.NewFromString(esc.Amount)
		if err != nil {
			return fmt.Errorf("parse hold amount: %w", err)
		}

		commission := amount.Mul(s.commissionRate).Round(2)
		payout := amount.Sub(commission)

		entry, err := s.ledger.Apply(ctx, q, esc.SellerID, ledger.TypeCredit, payout, ledger.EntryOptions{
			OrderID:      &orderID,
			Description:  fmt.Sprintf("escrow release (%s)", reason),
			PendingDelta: amount.Neg(),
		})
		if err != nil {
			return err
		}

		releasedAt := time.Now()
		if _, err := q.UpdateEscrowTransactionStatus(ctx, db.UpdateEscrowTransactionStatusParams{
			ID:         esc.ID,
			Status:     StatusReleased,
			ReleasedAt: sql.NullTime{Time: releasedAt, Valid: true},
		}); err != nil {
			return fmt.Errorf("settle hold: %w", err)
		}

		order, err := q.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("fetch order: %w", err)
		}
		if _, err := q.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
			ID:     orderID,
			Status: "completed",
		}); err != nil {
			return fmt.Errorf("complete order: %w", err)
		}

		seller, err = q.GetSellerByID(ctx, esc.SellerID)
		if err != nil {
			return fmt.Errorf("fetch seller: %w", err)
		}

		result = &ReleaseResult{
			OrderID:    orderID,
			SellerID:   esc.SellerID,
			BuyerID:    order.BuyerID,
			Amount:     amount,
			Commission: commission,
			Payout:     payout,
			ReleasedAt: releasedAt,
			Entry:      entry,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyRelease(ctx, result, seller)
	return result, nil
}

func (s *Service) notifyRelease(ctx context.Context, result *ReleaseResult, seller db.Seller) {
	if s.notifier == nil {
		return
	}

	s.notifier.Emit(ctx, result.SellerID, notification.Event{
		Type:    notification.TypeEscrowReleased,
		Title:   "Payout released",
		Message: fmt.Sprintf("₦%s from order %v is now in your wallet", result.Payout.StringFixed(2), result.OrderID),
		Metadata: map[string]interface{}{
			"order_id":   result.OrderID.String(),
			"payout":     result.Payout.String(),
			"commission": result.Commission.String(),
		},
		Recipient: notification_channel.Recipient{
			Email:         seller.Email,
			Phone:         seller.Phone.String,
			ExpoPushToken: seller.ExpoPushToken.String,
			FCMToken:      seller.FcmToken.String,
		},
	})

	s.notifier.Emit(ctx, result.BuyerID, notification.Event{
		Type:    notification.TypeOrderDelivered,
		Title:   "Order complete",
		Message: fmt.Sprintf("Order %v is confirmed delivered", result.OrderID),
		Metadata: map[string]interface{}{
			"order_id": result.OrderID.String(),
		},
	})
}
