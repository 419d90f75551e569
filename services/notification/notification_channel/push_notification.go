package notification_channel

import (
	"context"
	"fmt"

	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/monitoring/logging"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/utils"
	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"google.golang.org/api/option"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
)

type PushConfig struct {
	GoogleAppCredentials string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
}

// PushChannel delivers through Expo when the user registered an Expo token
// and falls back to FCM otherwise. Sellers use the Expo app; the buyer app
// registers FCM tokens directly.
type PushChannel struct {
	client *expo.PushClient
	app    *firebase.App
	logger *logging.Logger
}

func NewPushChannel(logger *logging.Logger) *PushChannel {
	var config PushConfig
	if err := utils.LoadCustomConfig(utils.EnvPath, &config); err != nil {
		logger.Error(fmt.Sprintf("Error loading push config: %v", err))
		return nil
	}

	var app *firebase.App
	if config.GoogleAppCredentials != "" {
		opt := option.WithCredentialsFile(config.GoogleAppCredentials)
		var err error
		app, err = firebase.NewApp(context.Background(), nil, opt)
		if err != nil {
			logger.Error(fmt.Sprintf("Error starting firebase App: %v", err))
		}
	}

	return &PushChannel{
		client: expo.NewPushClient(nil),
		app:    app,
		logger: logger,
	}
}

func (p *PushChannel) Channel() Channel { return PUSH }

func (p *PushChannel) Send(ctx context.Context, to Recipient, msg Message) error {
	if to.ExpoPushToken != "" {
		return p.sendExpo(to.ExpoPushToken, msg)
	}
	if to.FCMToken != "" {
		return p.sendFCM(ctx, to.FCMToken, msg)
	}
	return nil
}

func (p *PushChannel) sendExpo(token string, msg Message) error {
	pushToken, err := expo.NewExponentPushToken(token)
	if err != nil {
		return fmt.Errorf("invalid expo token: %w", err)
	}

	response, err := p.client.Publish(&expo.PushMessage{
		To:       []expo.ExponentPushToken{pushToken},
		Title:    msg.Title,
		Body:     msg.Body,
		Sound:    "default",
		Priority: expo.DefaultPriority,
	})
	if err != nil {
		return fmt.Errorf("expo publish: %w", err)
	}
	if err := response.ValidateResponse(); err != nil {
		return fmt.Errorf("expo response: %w", err)
	}

	return nil
}

func (p *PushChannel) sendFCM(ctx context.Context, token string, msg Message) error {
	if p.app == nil {
		return fmt.Errorf("firebase app not configured")
	}

	client, err := p.app.Messaging(ctx)
	if err != nil {
		return err
	}

	newMessage := messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
		},
	}

	if _, err := client.Send(ctx, &newMessage); err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}

	return nil
}
