package mail

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"github.com/dom/kanban-board/internal/clock"
	"github.com/dom/kanban-board/internal/config"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// Event is the record published for an out-of-process mailer.
type Event struct {
	Message
	CreatedAt time.Time `json:"createdAt"`
}

// KafkaSender hands messages to a mail worker through a Kafka topic.
type KafkaSender struct {
	writer *kafka.Writer
	clk    clock.Clock
}

func NewKafkaSender(cfg config.KafkaConfig, clk clock.Clock) *KafkaSender {
	transport := &kafka.Transport{}
	if cfg.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}
		transport.TLS = &tls.Config{}
	}

	return &KafkaSender{
		clk: clk,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Broker),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			Transport:    transport,
			WriteTimeout: 10 * time.Second,
		},
	}
}

func (s *KafkaSender) Send(ctx context.Context, msg Message) error {
	value, err := s.encode(msg)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.To),
		Value: value,
	})
}

func (s *KafkaSender) encode(msg Message) ([]byte, error) {
	return json.Marshal(Event{Message: msg, CreatedAt: s.clk.Now().UTC()})
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
