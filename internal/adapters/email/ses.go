package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"

	"provisioning-functions/internal/models"
)

const charsetUTF8 = "UTF-8"

// sesAPI is the subset of the SES client used by SESSender
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender sends mail through Amazon SES
type SESSender struct {
	client sesAPI
}

// NewSESSender builds an SES client from static credentials
func NewSESSender(ctx context.Context, accessKeyID, secretAccessKey, region string) (*SESSender, error) {
	if accessKeyID == "" || secretAccessKey == "" {
		return nil, ErrNotConfigured
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &SESSender{client: ses.NewFromConfig(cfg)}, nil
}

func newSESSenderWithClient(client sesAPI) *SESSender {
	return &SESSender{client: client}
}

// Provider implements Sender.Provider
func (s *SESSender) Provider() string {
	return "ses"
}

// Send implements Sender.Send
func (s *SESSender) Send(ctx context.Context, msg models.EmailMessage) (string, error) {
	if err := validateMessage("ses.SendEmail", msg); err != nil {
		return "", err
	}

	input := &ses.SendEmailInput{
		Source: aws.String(msg.From),
		Destination: &sestypes.Destination{
			ToAddresses: msg.To,
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String(charsetUTF8),
			},
			Body: &sestypes.Body{
				Html: &sestypes.Content{
					Data:    aws.String(msg.HTML),
					Charset: aws.String(charsetUTF8),
				},
			},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return "", NewSendError("ses.SendEmail", msg.To[0], fmt.Errorf("%w: %v", ErrProviderRejected, err), ctx.Err() == nil)
	}

	return aws.ToString(out.MessageId), nil
}
