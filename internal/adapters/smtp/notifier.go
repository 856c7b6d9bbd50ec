package smtp

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
)

// Notifier sends email over plain SMTP with optional AUTH PLAIN. It builds a
// multipart/alternative message so clients without HTML rendering still get
// the text part.
type Notifier struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewNotifier(host, port, username, password, from string) *Notifier {
	return &Notifier{Host: host, Port: port, Username: username, Password: password, From: from}
}

func (n *Notifier) Send(ctx context.Context, to, subject, htmlBody, textBody string) (string, error) {
	if n.Host == "" {
		return "", errors.New("smtp host not configured")
	}
	if to == "" {
		return "", errors.New("empty recipient")
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), n.Host)
	msg, err := n.buildMessage(messageID, to, subject, htmlBody, textBody)
	if err != nil {
		return "", err
	}

	var auth smtp.Auth
	if n.Username != "" {
		auth = smtp.PlainAuth("", n.Username, n.Password, n.Host)
	}

	addr := n.Host + ":" + n.Port

	// net/smtp has no context support, so run the dial+send in a goroutine
	// and abandon it when the context expires.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, n.From, []string{to}, msg)
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("send mail to %s: %w", to, err)
		}
	}
	return messageID, nil
}

func (n *Notifier) buildMessage(messageID, to, subject, htmlBody, textBody string) ([]byte, error) {
	var body strings.Builder
	mw := multipart.NewWriter(&body)

	var headers strings.Builder
	fmt.Fprintf(&headers, "From: %s\r\n", n.From)
	fmt.Fprintf(&headers, "To: %s\r\n", to)
	fmt.Fprintf(&headers, "Subject: %s\r\n", subject)
	fmt.Fprintf(&headers, "Message-ID: %s\r\n", messageID)
	headers.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&headers, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	headers.WriteString("\r\n")

	// Text part first: last part wins in multipart/alternative.
	pw, err := mw.CreatePart(textPartHeader())
	if err != nil {
		return nil, err
	}
	if _, err := pw.Write([]byte(textBody)); err != nil {
		return nil, err
	}
	pw, err = mw.CreatePart(htmlPartHeader())
	if err != nil {
		return nil, err
	}
	if _, err := pw.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return []byte(headers.String() + body.String()), nil
}

func textPartHeader() map[string][]string {
	return map[string][]string{"Content-Type": {"text/plain; charset=UTF-8"}}
}

func htmlPartHeader() map[string][]string {
	return map[string][]string{"Content-Type": {"text/html; charset=UTF-8"}}
}
