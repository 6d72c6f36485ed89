// Package paymentevents publishes payment-completed events for downstream
// consumers.
//
// Publishing happens in the delivery layer after the ledger transaction has
// committed; the engine itself never performs external calls.
package paymentevents

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-petr/pay-ledger/internal/domain"
	"github.com/segmentio/kafka-go"
)

// PaymentCompleted is the event emitted after each successful payment.
type PaymentCompleted struct {
	TransactionID string    `json:"transaction_id"`
	OrderID       string    `json:"order_id"`
	SenderID      string    `json:"sender_id"`
	ReceiverID    string    `json:"receiver_id"`
	Amount        string    `json:"amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// FromResult builds the event payload from a committed payment result.
func FromResult(result domain.PaymentTxResult) PaymentCompleted {
	return PaymentCompleted{
		TransactionID: result.Transaction.ID,
		OrderID:       result.Transaction.OrderID,
		SenderID:      result.Transaction.SenderID,
		ReceiverID:    result.Transaction.ReceiverID,
		Amount:        result.Transaction.Amount,
		OccurredAt:    result.Transaction.CreatedAt,
	}
}

// KafkaPublisher writes payment-completed events to a kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher returns a publisher writing to the given brokers and topic.
func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PaymentCompleted publishes the event, keyed by transaction id.
func (p *KafkaPublisher) PaymentCompleted(ctx context.Context, event PaymentCompleted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TransactionID),
		Value: data,
	})
}

// Close closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

// PaymentCompleted implements the publisher contract and does nothing.
func (Noop) PaymentCompleted(context.Context, PaymentCompleted) error {
	return nil
}
