package mail

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender sends notification e-mail. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// SendGridClient implements Sender using the SendGrid API.
type SendGridClient struct {
	apiKey string
}

// NewSendGridClient creates a SendGrid-backed sender.
func NewSendGridClient(apiKey string) *SendGridClient {
	return &SendGridClient{apiKey: apiKey}
}

// Send sends a plain-text email.
func (c *SendGridClient) Send(_ context.Context, from, to, subject, body string) error {
	if c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if from == "" || to == "" {
		return fmt.Errorf("from and to addresses are required")
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail("Storefront", from),
		subject,
		sgmail.NewEmail("", to),
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)

	response, err := sendgrid.NewSendClient(c.apiKey).Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	log.Printf("Notification mail sent: status=%d to=%s subject=%s", response.StatusCode, to, subject)
	return nil
}
