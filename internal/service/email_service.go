package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// sesClient is the part of the SES v2 client used here
type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService sends practice notifications via Amazon SES
type EmailService struct {
	client    sesClient
	fromEmail string
	fromName  string
	toEmail   string
	enabled   bool
	logger    *zap.Logger
}

// NewEmailService creates a new email service.
// Without a sender or recipient the service is disabled and sends nothing.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, toEmail string, logger *zap.Logger) (*EmailService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fromEmail == "" || toEmail == "" {
		logger.Info("email notifications disabled: SES_FROM_EMAIL or NOTIFY_EMAIL not configured")
		return &EmailService{enabled: false, logger: logger}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("email notifications enabled",
		zap.String("from", fromEmail),
		zap.String("to", toEmail),
		zap.String("region", awsRegion),
	)
	return newEmailService(sesv2.NewFromConfig(cfg), fromEmail, fromName, toEmail, logger), nil
}

func newEmailService(client sesClient, fromEmail, fromName, toEmail string, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		toEmail:   toEmail,
		enabled:   true,
		logger:    logger,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// TopicCompleted sends a congratulation for a topic finished without mistakes
func (s *EmailService) TopicCompleted(ctx context.Context, topicID string, timeMs int64) error {
	if !s.enabled {
		s.logger.Debug("skipping email send (service disabled)", zap.String("topic", topicID))
		return nil
	}

	mode, topic, _ := strings.Cut(topicID, "/")
	duration := (time.Duration(timeMs) * time.Millisecond).Round(time.Second)

	subject := fmt.Sprintf("Aihe suoritettu: %s", topic)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #003580; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Hienoa!</h1>
		</div>
		<div class="content">
			<p>The topic <strong>%s</strong> in <strong>%s</strong> was completed without a single mistake.</p>
			<p>Time: %s</p>
		</div>
		<div class="footer">
			<p>This is an automated email from Harjoitus. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(topic), html.EscapeString(mode), duration)

	textBody := fmt.Sprintf(`Hienoa!

The topic %s in %s was completed without a single mistake.
Time: %s

---
This is an automated email from Harjoitus. Please do not reply.
`, topic, mode, duration)

	return s.sendEmail(ctx, subject, htmlBody, textBody)
}

func (s *EmailService) sendEmail(ctx context.Context, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{s.toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", s.toEmail, err)
	}

	fields := []zap.Field{zap.String("to", s.toEmail), zap.String("subject", subject)}
	if result != nil && result.MessageId != nil {
		fields = append(fields, zap.String("message_id", *result.MessageId))
	}
	s.logger.Info("email sent", fields...)
	return nil
}
