package withdrawal

import (
	"context"
	"database/sql"
	"fmt"

	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/ledger"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/monitoring/logging"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/notification"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/notification/notification_channel"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Store is the slice of db.Store the withdrawal manager needs. The withdrawal
// row writes deliberately run outside the ledger transaction: the debit
// reserves the funds first, and a failed insert is undone with a compensating
// credit rather than a rollback.
type Store interface {
	GetSellerByID(ctx context.Context, id int64) (db.Seller, error)
	CreateWithdrawal(ctx context.Context, arg db.CreateWithdrawalParams) (db.WithdrawalRequest, error)
	GetWithdrawal(ctx context.Context, id uuid.UUID) (db.WithdrawalRequest, error)
	MarkWithdrawalCancelled(ctx context.Context, id uuid.UUID) (db.WithdrawalRequest, error)
	UpdateWithdrawalStatus(ctx context.Context, arg db.UpdateWithdrawalStatusParams) (db.WithdrawalRequest, error)
	ListWithdrawalsBySeller(ctx context.Context, arg db.ListWithdrawalsBySellerParams) ([]db.WithdrawalRequest, error)
	ListPendingWithdrawals(ctx context.Context) ([]db.WithdrawalRequest, error)
}

type Ledger interface {
	Credit(ctx context.Context, sellerID int64, amount decimal.Decimal, opts ledger.EntryOptions) (*ledger.Entry, error)
	Debit(ctx context.Context, sellerID int64, amount decimal.Decimal, opts ledger.EntryOptions) (*ledger.Entry, error)
}

type Notifier interface {
	Emit(ctx context.Context, userID int64, event notification.Event)
}

// DailyTracker accumulates per-seller withdrawal volume over the current day.
// Nil tracker or a zero cap disables the check.
type DailyTracker interface {
	DailyWithdrawalTotal(ctx context.Context, sellerID int64) (decimal.Decimal, error)
	RecordWithdrawal(ctx context.Context, sellerID int64, amount decimal.Decimal) error
}

type Service struct {
	store         Store
	ledger        Ledger
	notifier      Notifier
	tracker       DailyTracker
	logger        *logging.Logger
	validate      *validator.Validate
	minWithdrawal decimal.Decimal
	dailyCap      decimal.Decimal
}

type Config struct {
	MinWithdrawal float64
	DailyCap      float64
}

func NewWithdrawalService(store Store, ledgerService Ledger, notifier Notifier, tracker DailyTracker, logger *logging.Logger, config Config) *Service {
	return &Service{
		store:         store,
		ledger:        ledgerService,
		notifier:      notifier,
		tracker:       tracker,
		logger:        logger,
		validate:      validator.New(),
		minWithdrawal: decimal.NewFromFloat(config.MinWithdrawal),
		dailyCap:      decimal.NewFromFloat(config.DailyCap),
	}
}

// Request reserves the amount and files a withdrawal for the operator queue.
// The debit happens before the row insert, so a request that exists is always
// backed by reserved funds. Insufficient balance surfaces as
// ledger.ErrInsufficientBalance.
func (s *Service) Request(ctx context.Context, sellerID int64, amount decimal.Decimal, details BankDetails) (*Request, error) {
	if amount.LessThan(s.minWithdrawal) {
		return nil, fmt.Errorf("%w: minimum is %s", ErrBelowMinimum, s.minWithdrawal.StringFixed(2))
	}

	seller, err := s.store.GetSellerByID(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("fetch seller: %w", err)
	}
	if !seller.BankVerified {
		return nil, ErrBankNotVerified
	}

	if err := s.validate.Struct(details); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBankDetails, err)
	}

	if err := s.checkDailyCap(ctx, sellerID, amount); err != nil {
		return nil, err
	}

	reference, err := utils.GenerateReference("WDL")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}
	id := uuid.New()

	var row db.WithdrawalRequest
	err = s.runCompensated(
		func() (*ledger.Entry, error) {
			return s.ledger.Debit(ctx, sellerID, amount, ledger.EntryOptions{
				Description: "withdrawal reservation",
				Reference:   reference,
			})
		},
		func(entry *ledger.Entry) error {
			var createErr error
			row, createErr = s.store.CreateWithdrawal(ctx, db.CreateWithdrawalParams{
				ID:            id,
				SellerID:      sellerID,
				Amount:        amount.StringFixed(2),
				BankName:      details.BankName,
				BankCode:      details.BankCode,
				AccountNumber: details.AccountNumber,
				AccountName:   details.AccountName,
				Reference:     reference,
			})
			return createErr
		},
		func(entry *ledger.Entry) error {
			_, compErr := s.ledger.Credit(ctx, sellerID, amount, reversalOptions(entry, "withdrawal reservation reversal"))
			return compErr
		},
		ErrCreateFailed,
	)
	if err != nil {
		return nil, err
	}

	if s.tracker != nil {
		if trackErr := s.tracker.RecordWithdrawal(ctx, sellerID, amount); trackErr != nil {
			s.logger.WithFields(logrus.Fields{
				"seller_id": sellerID,
				"error":     trackErr.Error(),
			}).Warn("could not record withdrawal volume")
		}
	}

	request, err := toRequest(row)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, seller, notification.TypeWithdrawalRequested, "Withdrawal requested",
		fmt.Sprintf("₦%s is on its way to %s (%s)", amount.StringFixed(2), details.BankName, maskAccount(details.AccountNumber)),
		request)
	return request, nil
}

// Cancel refunds a pending request. The credit lands first; the conditional
// pending-to-cancelled flip then decides the race against an operator who is
// picking the request up, and a lost race undoes the credit.
func (s *Service) Cancel(ctx context.Context, sellerID int64, id uuid.UUID) (*CancelResult, error) {
	row, err := s.store.GetWithdrawal(ctx, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("fetch withdrawal: %w", err)
	}
	if row.SellerID != sellerID {
		return nil, ErrNotFound
	}
	if row.Status != StatusPending {
		return nil, ErrAlreadyProcessed
	}

	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return nil, fmt.Errorf("parse withdrawal amount: %w", err)
	}

	err = s.runCompensated(
		func() (*ledger.Entry, error) {
			return s.ledger.Credit(ctx, sellerID, amount, ledger.EntryOptions{
				Description: "withdrawal cancelled",
				Reference:   row.Reference + "-CXL",
			})
		},
		func(entry *ledger.Entry) error {
			_, flipErr := s.store.MarkWithdrawalCancelled(ctx, id)
			if flipErr == sql.ErrNoRows {
				return ErrAlreadyProcessed
			} else if flipErr != nil {
				return fmt.Errorf("%w: %v", ErrCancelFailed, flipErr)
			}
			return nil
		},
		func(entry *ledger.Entry) error {
			_, compErr := s.ledger.Debit(ctx, sellerID, amount, reversalOptions(entry, "withdrawal cancel reversal"))
			return compErr
		},
		nil,
	)
	if err != nil {
		return nil, err
	}

	if seller, sellerErr := s.store.GetSellerByID(ctx, sellerID); sellerErr == nil {
		s.notify(ctx, seller, notification.TypeWithdrawalCancelled, "Withdrawal cancelled",
			fmt.Sprintf("₦%s has been returned to your wallet", amount.StringFixed(2)), nil)
	}

	return &CancelResult{ID: id, RefundedAmount: amount}, nil
}

// allowedFrom maps each operator-set status to the states it may leave.
var allowedFrom = map[string][]string{
	StatusProcessing: {StatusPending},
	StatusCompleted:  {StatusProcessing},
	StatusFailed:     {StatusPending, StatusProcessing},
}

// Process advances a request through the operator side of its lifecycle.
// A failed payout puts the reserved amount back on the wallet.
func (s *Service) Process(ctx context.Context, id uuid.UUID, newStatus, failureReason string) (*Request, error) {
	from, ok := allowedFrom[newStatus]
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, newStatus)
	}

	row, err := s.store.UpdateWithdrawalStatus(ctx, db.UpdateWithdrawalStatusParams{
		ID:            id,
		Status:        newStatus,
		FailureReason: sql.NullString{String: failureReason, Valid: failureReason != ""},
		FromStatuses:  from,
	})
	if err == sql.ErrNoRows {
		if _, getErr := s.store.GetWithdrawal(ctx, id); getErr == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, ErrInvalidTransition
	} else if err != nil {
		return nil, fmt.Errorf("update withdrawal: %w", err)
	}

	request, err := toRequest(row)
	if err != nil {
		return nil, err
	}

	if newStatus == StatusFailed {
		if refundErr := s.refundFailed(ctx, request); refundErr != nil {
			return nil, refundErr
		}
	}

	if seller, sellerErr := s.store.GetSellerByID(ctx, row.SellerID); sellerErr == nil {
		switch newStatus {
		case StatusCompleted:
			s.notify(ctx, seller, notification.TypeWithdrawalCompleted, "Withdrawal paid out",
				fmt.Sprintf("₦%s has been sent to %s", request.Amount.StringFixed(2), request.BankDetails.BankName), request)
		case StatusFailed:
			s.notify(ctx, seller, notification.TypeWithdrawalFailed, "Withdrawal failed",
				fmt.Sprintf("₦%s has been returned to your wallet", request.Amount.StringFixed(2)), request)
		}
	}

	return request, nil
}

// refundFailed returns the reservation after the row is already marked
// failed. A refund that cannot land is an operator problem, not a retry
// loop: flag it and stop.
func (s *Service) refundFailed(ctx context.Context, request *Request) error {
	_, err := s.ledger.Credit(ctx, request.SellerID, request.Amount, ledger.EntryOptions{
		Description: "withdrawal failed, reservation returned",
		Reference:   request.Reference + "-RFND",
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"withdrawal_id":           request.ID.String(),
			"seller_id":               request.SellerID,
			"amount":                  request.Amount.String(),
			"error":                   err.Error(),
			"reconciliation_required": true,
		}).Error("failed withdrawal could not be refunded")
		return fmt.Errorf("%w: %v", ErrReconciliationRequired, err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, sellerID int64, id uuid.UUID) (*Request, error) {
	row, err := s.store.GetWithdrawal(ctx, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if row.SellerID != sellerID {
		return nil, ErrNotFound
	}
	return toRequest(row)
}

func (s *Service) History(ctx context.Context, sellerID int64, limit, offset int32) ([]*Request, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.store.ListWithdrawalsBySeller(ctx, db.ListWithdrawalsBySellerParams{
		SellerID: sellerID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}
	return toRequests(rows)
}

// ListOpen returns the operator queue of pending and processing requests.
func (s *Service) ListOpen(ctx context.Context) ([]*Request, error) {
	rows, err := s.store.ListPendingWithdrawals(ctx)
	if err != nil {
		return nil, err
	}
	return toRequests(rows)
}

func (s *Service) checkDailyCap(ctx context.Context, sellerID int64, amount decimal.Decimal) error {
	if s.tracker == nil || !s.dailyCap.IsPositive() {
		return nil
	}

	total, err := s.tracker.DailyWithdrawalTotal(ctx, sellerID)
	if err != nil {
		// The cap is a throttle, not a safety property; the wallet debit
		// still bounds the damage when the tracker is down.
		s.logger.WithFields(logrus.Fields{
			"seller_id": sellerID,
			"error":     err.Error(),
		}).Warn("daily withdrawal total unavailable, skipping cap check")
		return nil
	}

	if total.Add(amount).GreaterThan(s.dailyCap) {
		return fmt.Errorf("%w: cap is %s", ErrDailyCapExceeded, s.dailyCap.StringFixed(2))
	}
	return nil
}

func (s *Service) notify(ctx context.Context, seller db.Seller, eventType, title, message string, request *Request) {
	if s.notifier == nil {
		return
	}

	metadata := map[string]interface{}{}
	if request != nil {
		metadata["withdrawal_id"] = request.ID.String()
		metadata["amount"] = request.Amount.String()
		metadata["reference"] = request.Reference
	}

	s.notifier.Emit(ctx, seller.ID, notification.Event{
		Type:     eventType,
		Title:    title,
		Message:  message,
		Metadata: metadata,
		Recipient: notification_channel.Recipient{
			Email:         seller.Email,
			Phone:         seller.Phone.String,
			ExpoPushToken: seller.ExpoPushToken.String,
			FCMToken:      seller.FcmToken.String,
		},
	})
}

func toRequests(rows []db.WithdrawalRequest) ([]*Request, error) {
	requests := make([]*Request, 0, len(rows))
	for _, row := range rows {
		request, err := toRequest(row)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}

func maskAccount(accountNumber string) string {
	if len(accountNumber) <= 4 {
		return accountNumber
	}
	return "******" + accountNumber[len(accountNumber)-4:]
}
