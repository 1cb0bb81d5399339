package contracts

import (
	"context"

	commitplan "github.com/weibuddies/products-service/internal/pkg/committer"
)

// Committer is a small abstraction the usecases call to apply a collection
// of mutations atomically. This keeps usecases independent of commitplan
// driver details and lets tests swap in an in-memory implementation.
type Committer interface {
	// Apply atomically applies the provided mutation plan.
	// An insert colliding with an existing row surfaces as
	// domain.ErrProductExists.
	Apply(ctx context.Context, plan *commitplan.Plan) error

	// ApplyGuarded applies the plan only if the stored version of the
	// product still equals expectedVersion at commit time. A mismatch
	// (a concurrent mutation won the race) surfaces as
	// domain.ErrVersionConflict; a missing row as domain.ErrProductNotFound.
	ApplyGuarded(ctx context.Context, productID string, expectedVersion int64, plan *commitplan.Plan) error
}
