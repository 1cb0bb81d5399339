package contracts

import (
	"context"
	"fmt"

	domain "github.com/weibuddies/products-service/internal/app/product/domain"
)

// FactPublisher hands a fact off to the message bus. Delivery is
// at-least-once: the publish may land on the bus even when the
// acknowledgment is lost, which is why facts carry versions.
// For a single product id the bus preserves the order Publish was called.
type FactPublisher interface {
	Publish(ctx context.Context, fact domain.Fact) error
}

// PublishError describes a failed publish attempt. Transient transport
// failures (timeout, broker unavailable) are retryable; malformed facts
// are not.
type PublishError struct {
	Retryable bool
	Err       error
}

func (e *PublishError) Error() string {
	if e.Retryable {
		return fmt.Sprintf("publish failed (retryable): %v", e.Err)
	}
	return fmt.Sprintf("publish failed: %v", e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
