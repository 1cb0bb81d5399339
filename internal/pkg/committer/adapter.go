package committer

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/weibuddies/products-service/internal/app/product/domain"
	"github.com/weibuddies/products-service/internal/models/m_product"
)

// Adapter applies commit plans against Spanner.
type Adapter struct {
	client *spanner.Client
}

func NewAdapter(client *spanner.Client) *Adapter {
	return &Adapter{client: client}
}

// Apply applies the plan in a single read-write transaction.
func (a *Adapter) Apply(ctx context.Context, plan *Plan) error {
	if plan == nil || plan.IsEmpty() {
		return nil
	}

	if a.client == nil {
		return fmt.Errorf("committer: spanner client is nil")
	}

	_, err := a.client.ReadWriteTransaction(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		return tx.BufferWrite(plan.Mutations())
	})
	return classify(err)
}

// ApplyGuarded applies the plan only if the stored product version still
// equals expectedVersion. The version is read inside the same read-write
// transaction that buffers the plan, so the check and the write commit
// atomically: this is the compare-and-swap that resolves concurrent
// mutations of one product without locking.
func (a *Adapter) ApplyGuarded(ctx context.Context, productID string, expectedVersion int64, plan *Plan) error {
	if plan == nil || plan.IsEmpty() {
		return nil
	}

	if a.client == nil {
		return fmt.Errorf("committer: spanner client is nil")
	}

	_, err := a.client.ReadWriteTransaction(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		row, err := tx.ReadRow(ctx, m_product.TableName, spanner.Key{productID}, []string{m_product.ColVersion})
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrProductNotFound
			}
			return err
		}

		var stored int64
		if err := row.Columns(&stored); err != nil {
			return err
		}
		if stored != expectedVersion {
			return domain.ErrVersionConflict
		}

		return tx.BufferWrite(plan.Mutations())
	})
	return classify(err)
}

// classify maps Spanner/gRPC failures onto the domain's persistence
// sentinels. Everything else is passed through for the caller to treat as
// a storage error.
func classify(err error) error {
	if err == nil {
		return nil
	}

	switch status.Code(err) {
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %v", domain.ErrProductExists, err)
	case codes.NotFound:
		return fmt.Errorf("%w: %v", domain.ErrProductNotFound, err)
	case codes.Aborted:
		// Spanner aborts on transaction contention; to the caller this is
		// the same race as a version mismatch.
		return fmt.Errorf("%w: %v", domain.ErrVersionConflict, err)
	}
	return err
}
