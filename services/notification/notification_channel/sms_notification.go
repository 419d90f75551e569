package notification_channel

import (
	"context"
	"fmt"

	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/utils"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type SMSConfig struct {
	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioKeySid     string `mapstructure:"TWILIO_KEY_SID"`
	TwilioKeySecret  string `mapstructure:"TWILIO_KEY_SECRET"`
	TwilioFromNumber string `mapstructure:"TWILIO_FROM_NUMBER"`
}

type SMSChannel struct {
	config SMSConfig
}

func NewSMSChannel() (*SMSChannel, error) {
	var config SMSConfig
	if err := utils.LoadCustomConfig(utils.EnvPath, &config); err != nil {
		return nil, fmt.Errorf("could not load SMS config: %w", err)
	}

	if config.TwilioAccountSID == "" || config.TwilioFromNumber == "" {
		return nil, fmt.Errorf("twilio is not configured")
	}

	return &SMSChannel{config: config}, nil
}

func (s *SMSChannel) Channel() Channel { return SMS }

func (s *SMSChannel) Send(ctx context.Context, to Recipient, msg Message) error {
	if to.Phone == "" {
		return nil
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   s.config.TwilioKeySid,
		Password:   s.config.TwilioKeySecret,
		AccountSid: s.config.TwilioAccountSID,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(to.Phone)
	params.SetFrom(s.config.TwilioFromNumber)
	params.SetBody(fmt.Sprintf("%s: %s", msg.Title, msg.Body))

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}

	return nil
}
