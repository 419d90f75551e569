package notification_channel

import "context"

// Channel represents the type of notification channel
type Channel string

const (
	EMAIL Channel = "EMAIL"
	SMS   Channel = "SMS"
	PUSH  Channel = "PUSH"
)

// Recipient carries the delivery addresses known for a user. Empty fields
// simply mean the channel skips the message.
type Recipient struct {
	Email         string
	Phone         string
	ExpoPushToken string
	FCMToken      string
}

type Message struct {
	Title string
	Body  string
}

// Sender is one delivery channel. Send is best-effort; the emitter logs
// failures and moves on.
type Sender interface {
	Channel() Channel
	Send(ctx context.Context, to Recipient, msg Message) error
}
