package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type ResendNotifier struct {
	client *resend.Client
	from   string
}

func NewResendNotifier(apiKey, from string) *ResendNotifier {
	return &ResendNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (n *ResendNotifier) Send(ctx context.Context, message Message) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{message.To},
		Subject: message.Subject,
		Html:    message.HTML,
	}
	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
