package repo

import (
	"cloud.google.com/go/spanner"

	domain "github.com/weibuddies/products-service/internal/app/product/domain"
	"github.com/weibuddies/products-service/internal/models/m_product"
)

// ProductRepo is the Spanner implementation of the write-side repository.
// It returns *spanner.Mutation objects but never applies them.
type ProductRepo struct{}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{}
}

// buildInsertValues constructs the values map used for insertion.
// It's unexported so tests in the same package can inspect the map without
// relying on spanner.Mutation internals.
func buildInsertValues(p *domain.Product) map[string]interface{} {
	price := p.Price()
	return m_product.BuildInsertMap(
		p.ID(), p.OwnerID(), p.Title(),
		price.Numerator(), price.Denominator(),
		p.Version(),
		p.ReservationRef(),
		p.CreatedAt().UTC(), p.UpdatedAt().UTC(),
	)
}

// buildUpdateValues constructs the values map for the full mutable state of
// the row. Every accepted mutation rewrites title, price and version, so
// there is no per-field dirty tracking here.
func buildUpdateValues(p *domain.Product) map[string]interface{} {
	price := p.Price()
	return map[string]interface{}{
		m_product.ColTitle:            p.Title(),
		m_product.ColPriceNumerator:   price.Numerator(),
		m_product.ColPriceDenominator: price.Denominator(),
		m_product.ColVersion:          p.Version(),
		m_product.ColUpdatedAt:        p.UpdatedAt().UTC(),
	}
}

// InsertMut builds an Insert mutation for a new product.
func (r *ProductRepo) InsertMut(p *domain.Product) *spanner.Mutation {
	if p == nil {
		return nil
	}
	return m_product.InsertMutation(buildInsertValues(p))
}

// UpdateMut builds an Update mutation carrying the product's new state,
// including the advanced version.
func (r *ProductRepo) UpdateMut(p *domain.Product) *spanner.Mutation {
	if p == nil {
		return nil
	}
	return m_product.UpdateMutation(p.ID(), buildUpdateValues(p))
}
