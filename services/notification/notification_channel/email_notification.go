package notification_channel

// assumes you have the following environment variables setup for AWS session creation
// AWS_SDK_LOAD_CONFIG=1
// AWS_ACCESS_KEY_ID=XXXXXXXXXX
// AWS_SECRET_ACCESS_KEY=XXXXXXXX
// AWS_REGION=us-west-2

import (
	"context"
	"fmt"

	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/utils"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
)

type EmailChannel struct {
	config *utils.Config
}

func NewEmailChannel(config *utils.Config) *EmailChannel {
	return &EmailChannel{config: config}
}

func (e *EmailChannel) Channel() Channel { return EMAIL }

func (e *EmailChannel) Send(ctx context.Context, to Recipient, msg Message) error {
	if to.Email == "" {
		return nil
	}

	sess := session.Must(session.NewSession(
		&aws.Config{
			Region:      aws.String(e.config.AWSRegion),
			Credentials: credentials.NewStaticCredentials(e.config.AWSAccessKeyID, e.config.AWSSecretAccessKey, ""),
		},
	))

	svc := ses.New(sess)

	_, err := svc.SendEmailWithContext(ctx, &ses.SendEmailInput{
		Destination: &ses.Destination{
			ToAddresses: []*string{
				aws.String(to.Email),
			},
		},
		Message: &ses.Message{
			Body: &ses.Body{
				Html: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(msg.Body),
				},
			},
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(msg.Title),
			},
		},
		Source: aws.String(e.config.NotificationMail),
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}

	return nil
}
