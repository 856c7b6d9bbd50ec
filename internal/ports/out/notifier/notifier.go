package notifier

import "context"

// Notifier is the outbound email transport. Send returns a transport-assigned
// message ID on success.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) (messageID string, err error)
}
