package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	interfaces "github.com/sheikh-saqib/farminvest/internal/interfaces"
)

// Keyed is implemented by events that should be partitioned by a key.
type Keyed interface {
	EventKey() string
}

type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher writes to the given brokers. The topic is chosen per message.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Value: data,
	}
	if k, ok := event.(Keyed); ok {
		msg.Key = []byte(k.EventKey())
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
