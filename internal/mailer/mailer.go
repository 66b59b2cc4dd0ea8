package mailer

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/Skotchmaster/legalpadi/internal/mykafka"
)

type Message struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	HTML       string   `json:"html"`
}

// Dispatcher hands a message to whatever actually delivers mail.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// KafkaDispatcher publishes messages to an outbox topic consumed by the mail
// worker.
type KafkaDispatcher struct {
	Producer mykafka.Publisher
	Topic    string
}

func (d *KafkaDispatcher) Send(ctx context.Context, msg Message) error {
	if len(msg.Recipients) == 0 {
		return fmt.Errorf("mailer: message %q has no recipients", msg.Subject)
	}
	return d.Producer.PublishEvent(ctx, d.Topic, msg.Recipients[0], msg)
}

// LogDispatcher only records that a mail would have been sent. Bodies carry
// links and passwords, so they are not logged.
type LogDispatcher struct {
	Logger *slog.Logger
}

func (d *LogDispatcher) Send(_ context.Context, msg Message) error {
	d.Logger.Info("mail_dispatched", "recipients", strings.Join(msg.Recipients, ","), "subject", msg.Subject)
	return nil
}

func VerificationMail(email, link string) Message {
	return Message{
		Recipients: []string{email},
		Subject:    "Verify your email",
		HTML: fmt.Sprintf(
			`<h1>Welcome to LegalPadi</h1><p>Please click this <a href="%s">link</a> to verify your email.</p>`,
			html.EscapeString(link),
		),
	}
}

func CredentialsMail(email, password, link string) Message {
	return Message{
		Recipients: []string{email},
		Subject:    "Your LegalPadi account",
		HTML: fmt.Sprintf(
			`<h1>An account was created for you</h1><p>Email: %s<br>Password: %s</p><p>Verify your email <a href="%s">here</a>. Keep these credentials private.</p>`,
			html.EscapeString(email), html.EscapeString(password), html.EscapeString(link),
		),
	}
}
