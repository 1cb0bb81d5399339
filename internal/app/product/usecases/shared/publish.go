package shared

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	contracts "github.com/weibuddies/products-service/internal/app/product/contracts"
	domain "github.com/weibuddies/products-service/internal/app/product/domain"
)

const (
	// publishAttempts bounds delivery attempts per fact, first try included.
	publishAttempts = 3

	// PublishTimeout bounds the whole publish step. Once the store write has
	// committed, publishing runs on a context detached from the request, so
	// this is the only thing that ends it.
	PublishTimeout = 10 * time.Second
)

// PublishFacts hands the accumulated facts to the bus in order, retrying
// retryable failures with exponential backoff. It reports true when at
// least one fact could not be confirmed: the mutation is still committed,
// but downstream consistency is at risk until the consumer catches up.
func PublishFacts(ctx context.Context, publisher contracts.FactPublisher, logger *zap.Logger, facts []domain.Fact) (degraded bool) {
	for _, fact := range facts {
		if err := publishOne(ctx, publisher, fact); err != nil {
			logger.Warn("publish degraded: store write committed but fact delivery unconfirmed",
				zap.String("product_id", fact.ProductID),
				zap.Int64("version", fact.Version),
				zap.String("kind", string(fact.Kind)),
				zap.Error(err))
			// Stop here: publishing a later fact after dropping an earlier
			// one would break per-product ordering.
			return true
		}
	}
	return false
}

func publishOne(ctx context.Context, publisher contracts.FactPublisher, fact domain.Fact) error {
	op := func() error {
		err := publisher.Publish(ctx, fact)
		if err == nil {
			return nil
		}
		var perr *contracts.PublishError
		if errors.As(err, &perr) && !perr.Retryable {
			return backoff.Permanent(err)
		}
		return err
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 50 * time.Millisecond
	exp.MaxElapsedTime = 0 // attempts are bounded by count, not wall time

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(exp, publishAttempts-1), ctx))
}
