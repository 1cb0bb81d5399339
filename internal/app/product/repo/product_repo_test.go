package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/weibuddies/products-service/internal/app/product/domain"
	"github.com/weibuddies/products-service/internal/models/m_product"
)

// TestInsertMut verifies the values map built for a freshly created product.
func TestInsertMut(t *testing.T) {
	r := NewProductRepo()

	now := time.Now().UTC()
	price := domain.NewMoney(1999, 100) // $19.99

	p, err := domain.NewProduct("prod-insert", "user-1", "Desk", price, now)
	require.NoError(t, err)

	// Inspect values map (test-friendly)
	values := buildInsertValues(p)
	require.NotNil(t, values)

	assert.Equal(t, "prod-insert", values[m_product.ColProductID])
	assert.Equal(t, "user-1", values[m_product.ColOwnerID])
	assert.Equal(t, "Desk", values[m_product.ColTitle])
	assert.Equal(t, price.Numerator(), values[m_product.ColPriceNumerator])
	assert.Equal(t, price.Denominator(), values[m_product.ColPriceDenominator])
	assert.Equal(t, domain.InitialVersion, values[m_product.ColVersion])

	// A new product is never reserved; the column must still be present.
	v, ok := values[m_product.ColReservationRef]
	require.True(t, ok, "expected key %s in insert map", m_product.ColReservationRef)
	assert.Nil(t, v)

	mut := r.InsertMut(p)
	require.NotNil(t, mut)
}

// TestUpdateMut verifies the values map carries the advanced version.
func TestUpdateMut(t *testing.T) {
	r := NewProductRepo()

	now := time.Now().UTC()
	p := domain.ReconstructProduct("prod-update", "user-1", "Desk", domain.NewMoney(1999, 100), 4, nil, now, now)
	require.NoError(t, p.ApplyUpdate("user-1", "Standing Desk", domain.NewMoney(2999, 100), now))

	values := buildUpdateValues(p)
	require.NotNil(t, values)

	assert.Equal(t, "Standing Desk", values[m_product.ColTitle])
	assert.Equal(t, int64(2999), values[m_product.ColPriceNumerator])
	assert.Equal(t, int64(100), values[m_product.ColPriceDenominator])
	assert.Equal(t, int64(5), values[m_product.ColVersion])

	// The guarded write conditions on version, so the update values must
	// never contain the primary key (UpdateMutation adds it first).
	_, ok := values[m_product.ColProductID]
	assert.False(t, ok)

	mut := r.UpdateMut(p)
	require.NotNil(t, mut)
}

func TestMuts_NilProduct(t *testing.T) {
	r := NewProductRepo()
	assert.Nil(t, r.InsertMut(nil))
	assert.Nil(t, r.UpdateMut(nil))
}
