package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/ignite/newsletter/internal/domain"
)

// SESNotifier sends email through AWS SES v2. It is the alternative to the
// Postmark transport, selected by configuration.
type SESNotifier struct {
	client *sesv2.Client
	sender domain.SubscriberEmail
}

// NewSESNotifier builds an SES-backed Notifier with static credentials.
func NewSESNotifier(ctx context.Context, accessKey, secretKey, region string, sender domain.SubscriberEmail) (*SESNotifier, error) {
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &SESNotifier{client: sesv2.NewFromConfig(cfg), sender: sender}, nil
}

// Send delivers one email as SES simple content with both renderings.
func (s *SESNotifier) Send(ctx context.Context, to domain.SubscriberEmail, subject, htmlBody, textBody string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender.String()),
		Destination:      &types.Destination{ToAddresses: []string{to.String()}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("sending via SES: %w", err)
	}
	return nil
}
