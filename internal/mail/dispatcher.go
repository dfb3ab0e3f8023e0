package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const sendTimeout = 30 * time.Second

// Dispatcher sends mail in the background. Failures are logged and dropped.
type Dispatcher struct {
	sender Sender
	log    *slog.Logger
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, log *slog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, log: log}
}

func (d *Dispatcher) Dispatch(msg Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := d.sender.Send(ctx, msg); err != nil {
			d.log.Error("mail delivery failed", "to", msg.To, "subject", msg.Subject, "err", err)
		}
	}()
}

// Wait blocks until every dispatched message has been attempted.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
