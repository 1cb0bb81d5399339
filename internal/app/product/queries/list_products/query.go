package list_products

import (
	"context"
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/weibuddies/products-service/internal/app/product/dto"
)

// SpannerListProductsQuery lists products ordered by creation time.
// The (created_at, product_id) ordering gives every row a stable ordinal,
// which is what the page offsets address.
type SpannerListProductsQuery struct {
	Client *spanner.Client
}

func NewSpannerListProductsQuery(client *spanner.Client) *SpannerListProductsQuery {
	return &SpannerListProductsQuery{Client: client}
}

func (q *SpannerListProductsQuery) ListProducts(ctx context.Context, limit, offset int) ([]*dto.ProductDTO, error) {
	stmt := spanner.Statement{
		SQL: `SELECT product_id, owner_id, title,
		             price_numerator, price_denominator,
		             version, reservation_ref, created_at, updated_at
		      FROM products
		      ORDER BY created_at ASC, product_id ASC
		      LIMIT @limit OFFSET @offset`,
		Params: map[string]interface{}{
			"limit":  int64(limit),
			"offset": int64(offset),
		},
	}

	iter := q.Client.Single().Query(ctx, stmt)
	defer iter.Stop()

	out := make([]*dto.ProductDTO, 0, limit)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		p, err := scanProduct(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, nil
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
