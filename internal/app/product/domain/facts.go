package domain

import "time"

// FactKind distinguishes creation facts from mutation facts.
type FactKind string

const (
	// FactKindCreated marks the fact emitted when a product is created.
	FactKindCreated FactKind = "created"

	// FactKindUpdated marks the fact emitted when a product is mutated.
	FactKindUpdated FactKind = "updated"
)

// Fact is an immutable record of a product's state at a given version,
// emitted for downstream consumers. Facts for one product are published
// keyed by the product id so consumers see them in version order.
type Fact struct {
	Kind       FactKind
	ProductID  string
	OwnerID    string
	Title      string
	Price      *Money
	Version    int64
	OccurredAt time.Time
}
