package contracts

import (
	"context"

	"github.com/weibuddies/products-service/internal/app/product/dto"
)

// ReadModel is the read-side query interface.
type ReadModel interface {
	// GetProduct fetches a single product. Returns domain.ErrProductNotFound
	// (possibly wrapped) for unknown ids.
	GetProduct(ctx context.Context, productID string) (*dto.ProductDTO, error)

	// ListProducts returns up to limit products starting at the given
	// ordinal offset, ordered by creation.
	ListProducts(ctx context.Context, limit, offset int) ([]*dto.ProductDTO, error)
}
