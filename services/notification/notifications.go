package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/monitoring/logging"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/notification/notification_channel"
	"github.com/sqlc-dev/pqtype"
)

const (
	TypeEscrowReleased      = "escrow_released"
	TypeOrderDelivered      = "order_delivered"
	TypeDisputeOpened       = "dispute_opened"
	TypeWithdrawalRequested = "withdrawal_requested"
	TypeWithdrawalCancelled = "withdrawal_cancelled"
	TypeWithdrawalCompleted = "withdrawal_completed"
	TypeWithdrawalFailed    = "withdrawal_failed"
	TypeBankVerified        = "bank_verified"
)

type Event struct {
	Type      string
	Title     string
	Message   string
	Metadata  map[string]interface{}
	Recipient notification_channel.Recipient
}

type Store interface {
	CreateNotification(ctx context.Context, arg db.CreateNotificationParams) (db.Notification, error)
	ListNotificationsByUser(ctx context.Context, arg db.ListNotificationsByUserParams) ([]db.Notification, error)
	MarkNotificationRead(ctx context.Context, arg db.MarkNotificationReadParams) error
}

// Service is a fire-and-forget emitter. Emit never surfaces an error to the
// calling operation; a lost notification must not fail an escrow release or
// a withdrawal.
type Service struct {
	store    Store
	logger   *logging.Logger
	channels []notification_channel.Sender
}

func NewNotificationService(store Store, logger *logging.Logger, channels ...notification_channel.Sender) *Service {
	return &Service{
		store:    store,
		logger:   logger,
		channels: channels,
	}
}

func (n *Service) Emit(ctx context.Context, userID int64, event Event) {
	metadata := pqtype.NullRawMessage{}
	if len(event.Metadata) > 0 {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			n.logger.Error(fmt.Sprintf("could not marshal notification metadata: %v", err))
		} else {
			metadata = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
		}
	}

	_, err := n.store.CreateNotification(ctx, db.CreateNotificationParams{
		UserID:   userID,
		Type:     event.Type,
		Title:    event.Title,
		Message:  event.Message,
		Metadata: metadata,
	})
	if err != nil {
		n.logger.Error(fmt.Sprintf("could not persist notification for user %d: %v", userID, err))
	}

	if len(n.channels) == 0 {
		return
	}

	// Channel delivery is detached from the request; the caller never waits
	// on an external provider.
	go n.dispatch(userID, event)
}

func (n *Service) dispatch(userID int64, event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	msg := notification_channel.Message{
		Title: event.Title,
		Body:  event.Message,
	}

	for _, channel := range n.channels {
		if channel == nil {
			continue
		}
		if err := channel.Send(ctx, event.Recipient, msg); err != nil {
			n.logger.Error(fmt.Sprintf("%v delivery failed for user %d: %v", channel.Channel(), userID, err))
		}
	}
}

func (n *Service) List(ctx context.Context, userID int64, limit, offset int32) ([]db.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	return n.store.ListNotificationsByUser(ctx, db.ListNotificationsByUserParams{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
}

func (n *Service) MarkRead(ctx context.Context, userID int64, id int64) error {
	return n.store.MarkNotificationRead(ctx, db.MarkNotificationReadParams{
		ID:     id,
		UserID: userID,
	})
}
