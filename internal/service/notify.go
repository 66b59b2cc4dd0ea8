package service

import (
	"context"
	"sync"
	"time"

	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/mailer"
	"github.com/Skotchmaster/legalpadi/internal/mykafka"
)

const notifyTimeout = 5 * time.Second

// Notifier sends mail and domain events in the background. Callers never
// wait on delivery; failures are logged.
type Notifier struct {
	Mailer mailer.Dispatcher
	Events mykafka.Publisher
	Topic  string

	wg sync.WaitGroup
}

func (n *Notifier) SendMail(ctx context.Context, msg mailer.Message) {
	if n == nil || n.Mailer == nil {
		return
	}
	l := logging.FromContext(ctx)
	n.spawn(ctx, func(ctx context.Context) {
		if err := n.Mailer.Send(ctx, msg); err != nil {
			l.Error("mail_dispatch_failed", "subject", msg.Subject, "error", err)
		}
	})
}

func (n *Notifier) Publish(ctx context.Context, ev mykafka.Event) {
	if n == nil || n.Events == nil {
		return
	}
	l := logging.FromContext(ctx)
	n.spawn(ctx, func(ctx context.Context) {
		if err := n.Events.PublishEvent(ctx, n.Topic, ev.SubjectID, ev); err != nil {
			l.Warn("event_publish_failed", "type", ev.Type, "error", err)
		}
	})
}

func (n *Notifier) spawn(ctx context.Context, fn func(context.Context)) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		fn(ctx)
	}()
}

// Wait blocks until every pending send has finished.
func (n *Notifier) Wait() {
	if n != nil {
		n.wg.Wait()
	}
}
