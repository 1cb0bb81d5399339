package get_product

import (
	"context"
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	domain "github.com/weibuddies/products-service/internal/app/product/domain"
	"github.com/weibuddies/products-service/internal/app/product/dto"
)

// SpannerGetProductQuery is a concrete query implementation that reads from Spanner directly.
type SpannerGetProductQuery struct {
	Client *spanner.Client
}

func NewSpannerGetProductQuery(client *spanner.Client) *SpannerGetProductQuery {
	return &SpannerGetProductQuery{Client: client}
}

// GetProduct executes a SQL query to fetch a product row.
func (q *SpannerGetProductQuery) GetProduct(ctx context.Context, productID string) (*dto.ProductDTO, error) {
	stmt := spanner.Statement{
		SQL: `SELECT product_id, owner_id, title,
		             price_numerator, price_denominator,
		             version, reservation_ref, created_at, updated_at
		      FROM products
		      WHERE product_id = @id`,
		Params: map[string]interface{}{"id": productID},
	}

	iter := q.Client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return scanProduct(row)
}

func scanProduct(row *spanner.Row) (*dto.ProductDTO, error) {
	var (
		id, ownerID, title   string
		priceNum, priceDen   int64
		version              int64
		reservationRef       spanner.NullString
		createdAt, updatedAt time.Time
	)

	if err := row.Columns(&id, &ownerID, &title, &priceNum, &priceDen,
		&version, &reservationRef, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	out := &dto.ProductDTO{
		ProductID: id,
		OwnerID:   ownerID,
		Title:     title,
		PriceNum:  priceNum,
		PriceDen:  priceDen,
		Version:   version,
		Price:     new(big.Rat).SetFrac(big.NewInt(priceNum), big.NewInt(priceDen)).FloatString(2),
	}

	if reservationRef.Valid {
		ref := reservationRef.StringVal
		out.ReservationRef = &ref
	}

	c := createdAt.UTC().Format(time.RFC3339)
	out.CreatedAt = &c
	u := updatedAt.UTC().Format(time.RFC3339)
	out.UpdatedAt = &u

	return out, nil
}
