package mailer

import "context"

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Notifier sends transactional mail. Delivery is best-effort; callers log
// failures instead of failing the operation that triggered the mail.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}
