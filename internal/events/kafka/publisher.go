// Package kafka publishes product facts to the message bus.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	contracts "github.com/weibuddies/products-service/internal/app/product/contracts"
	domain "github.com/weibuddies/products-service/internal/app/product/domain"
)

// DefaultTopic is the bus topic downstream services subscribe to.
const DefaultTopic = "products"

// Writer is the subset of kafka.Writer the publisher needs.
// Extracted so tests can swap in a fake.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// NewWriter builds the production kafka writer. The Hash balancer plus the
// product-id key keeps all facts for one product on one partition, which
// is what gives consumers per-product ordering.
func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
}

// Publisher writes facts to the bus with at-least-once semantics.
type Publisher struct {
	writer Writer
	logger *zap.Logger
}

func NewPublisher(writer Writer, logger *zap.Logger) *Publisher {
	return &Publisher{writer: writer, logger: logger}
}

// Publish hands one fact to the bus, keyed by product id.
func (p *Publisher) Publish(ctx context.Context, fact domain.Fact) error {
	msg, err := factMessage(fact)
	if err != nil {
		return &contracts.PublishError{Retryable: false, Err: err}
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("fact publish failed",
			zap.String("product_id", fact.ProductID),
			zap.Int64("version", fact.Version),
			zap.Error(err))
		return &contracts.PublishError{Retryable: retryable(err), Err: err}
	}

	return nil
}

// factMessage flattens a fact into the wire form: key = product id,
// value = JSON object of string fields.
func factMessage(fact domain.Fact) (kafkago.Message, error) {
	if fact.Price == nil {
		return kafkago.Message{}, fmt.Errorf("fact for product %s has no price", fact.ProductID)
	}

	fields := map[string]string{
		"kind":       string(fact.Kind),
		"product_id": fact.ProductID,
		"owner_id":   fact.OwnerID,
		"title":      fact.Title,
		"price":      fact.Price.String(),
		"version":    strconv.FormatInt(fact.Version, 10),
	}

	value, err := json.Marshal(fields)
	if err != nil {
		return kafkago.Message{}, err
	}

	return kafkago.Message{
		Key:   []byte(fact.ProductID),
		Value: value,
		Time:  fact.OccurredAt,
	}, nil
}

// retryable classifies a write failure. Transport-level failures
// (timeouts, broker unavailable) are worth retrying; anything the broker
// permanently rejected is not.
func retryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var kerr kafkago.Error
	if errors.As(err, &kerr) {
		return kerr.Temporary()
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}

	// kafka-go surfaces broker connection problems as plain errors;
	// treat unknown transport failures as transient.
	return true
}
