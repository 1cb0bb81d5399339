package contracts

import (
	"cloud.google.com/go/spanner"

	domain "github.com/weibuddies/products-service/internal/app/product/domain"
)

// ProductRepo is the write-side repository interface for products.
// Methods return Spanner mutations; they do not apply them.
type ProductRepo interface {
	// InsertMut returns a mutation that inserts the product (or nil if none).
	InsertMut(p *domain.Product) *spanner.Mutation

	// UpdateMut returns a mutation that writes the product's mutable state
	// (title, price, version, updated_at) back to its row (or nil).
	UpdateMut(p *domain.Product) *spanner.Mutation
}
