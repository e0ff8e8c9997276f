// Package notify sends transactional email to applicants over SES.
// The in-app notification feed is the durable record; email is a
// best-effort mirror of it and of the issued credentials.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"concours-workers/internal/common/logger"
)

// EmailAPI is the slice of the SES client the mailer needs.
type EmailAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type Mailer struct {
	api     EmailAPI
	sender  string
	enabled bool
	logger  logger.Logger
}

func NewMailer(api EmailAPI, sender string, enabled bool, log logger.Logger) *Mailer {
	return &Mailer{api: api, sender: sender, enabled: enabled, logger: log}
}

// SendCredentials delivers the generated password after submission or
// a password reset.
func (m *Mailer) SendCredentials(ctx context.Context, to, password string) error {
	body := fmt.Sprintf(
		"Your application account has been created.\r\n\r\n"+
			"Login: %s\r\nPassword: %s\r\n\r\n"+
			"Use these credentials to follow your application.", to, password)
	return m.send(ctx, to, "Your application credentials", body)
}

// SendDecision mirrors a status notification to the applicant's inbox.
func (m *Mailer) SendDecision(ctx context.Context, to, title, message string) error {
	return m.send(ctx, to, title, message)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	if !m.enabled {
		m.logger.Debug("email delivery disabled, skipping send", map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
		return nil
	}

	_, err := m.api.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	m.logger.Info("email sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})
	return nil
}
