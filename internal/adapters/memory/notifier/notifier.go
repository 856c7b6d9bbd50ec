package notifier

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Sent is one recorded notification.
type Sent struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Notifier is an in-memory notifier.Notifier used in tests and local dev.
// It records every send and can be scripted to fail for specific recipients.
type Notifier struct {
	mu   sync.Mutex
	sent []Sent

	// FailFor maps recipient address to the error Send should return.
	FailFor map[string]error
}

func New() *Notifier {
	return &Notifier{FailFor: make(map[string]error)}
}

func (n *Notifier) Send(ctx context.Context, to, subject, htmlBody, textBody string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.FailFor[to]; ok && err != nil {
		return "", err
	}
	n.sent = append(n.sent, Sent{To: to, Subject: subject, HTMLBody: htmlBody, TextBody: textBody})
	return uuid.NewString(), nil
}

// SentMessages returns all recorded sends, in order.
func (n *Notifier) SentMessages() []Sent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Sent(nil), n.sent...)
}
