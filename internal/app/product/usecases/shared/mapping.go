package shared

import (
	"time"

	domain "github.com/weibuddies/products-service/internal/app/product/domain"
	"github.com/weibuddies/products-service/internal/app/product/dto"
)

// ProductDTO maps the aggregate's state into the read DTO so mutation
// responses can carry the admitted state without a second read.
func ProductDTO(p *domain.Product) *dto.ProductDTO {
	price := p.Price()

	created := p.CreatedAt().UTC().Format(time.RFC3339)
	updated := p.UpdatedAt().UTC().Format(time.RFC3339)

	return &dto.ProductDTO{
		ProductID:      p.ID(),
		OwnerID:        p.OwnerID(),
		Title:          p.Title(),
		PriceNum:       price.Numerator(),
		PriceDen:       price.Denominator(),
		Version:        p.Version(),
		ReservationRef: p.ReservationRef(),
		CreatedAt:      &created,
		UpdatedAt:      &updated,
		Price:          price.String(),
	}
}
