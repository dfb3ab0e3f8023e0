// Package mail delivers outbound email. Sending happens after the writes that
// trigger it have committed and never feeds back into them.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dom/kanban-board/internal/clock"
	"github.com/dom/kanban-board/internal/config"
)

type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"htmlBody"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender builds the Sender selected by cfg.Mail.Transport.
func NewSender(cfg *config.Config, clk clock.Clock, log *slog.Logger) (Sender, error) {
	switch cfg.Mail.Transport {
	case config.MailTransportSMTP:
		return NewSMTPSender(cfg.Mail), nil
	case config.MailTransportKafka:
		return NewKafkaSender(cfg.Kafka, clk), nil
	case config.MailTransportLog, "":
		return NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Mail.Transport)
	}
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("mail", "to", msg.To, "subject", msg.Subject, "body", msg.HTMLBody)
	return nil
}
