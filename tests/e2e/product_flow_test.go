package e2e

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weibuddies/products-service/internal/app/product/domain"
	"github.com/weibuddies/products-service/internal/app/product/repo"
	"github.com/weibuddies/products-service/internal/app/product/usecases/create_product"
	"github.com/weibuddies/products-service/internal/app/product/usecases/update_product"
	"github.com/weibuddies/products-service/internal/models/m_product"
	commitplan "github.com/weibuddies/products-service/internal/pkg/committer"
)

func newUpdatePlan(p *domain.Product) *commitplan.Plan {
	plan := commitplan.NewPlan()
	plan.Add(repo.NewProductRepo().UpdateMut(p))
	return plan
}

// TestProductMutationFlow covers the create/update lifecycle: versions
// advance by one, the owner check holds, and every accepted mutation
// publishes exactly one fact in version order.
func TestProductMutationFlow(t *testing.T) {
	requireEmulator(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := createUC.Execute(ctx, create_product.Request{
		OwnerID: "user-1",
		Title:   "Desk",
		Price:   "100.00",
	})
	require.NoError(t, err)
	require.False(t, created.PublishDegraded)
	productID := created.Product.ProductID
	require.NotEmpty(t, productID)
	assert.Equal(t, domain.InitialVersion, created.Product.Version)

	prod, err := readModel.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, "Desk", prod.Title)
	assert.Equal(t, "100.00", prod.Price)
	assert.Equal(t, domain.InitialVersion, prod.Version)

	clk.Advance(time.Minute)
	updated, err := updateUC.Execute(ctx, update_product.Request{
		ProductID:   productID,
		RequesterID: "user-1",
		Title:       "Desk",
		Price:       "90.00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Product.Version)
	assert.Equal(t, "90.00", updated.Product.Price)

	// An update by someone else must be rejected with no version change.
	_, err = updateUC.Execute(ctx, update_product.Request{
		ProductID:   productID,
		RequesterID: "user-2",
		Title:       "Desk",
		Price:       "1.00",
	})
	require.ErrorIs(t, err, domain.ErrNotProductOwner)

	prod, err = readModel.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), prod.Version)
	assert.Equal(t, "90.00", prod.Price)

	facts := pub.factsFor(productID)
	require.Len(t, facts, 2)
	assert.Equal(t, domain.FactKindCreated, facts[0].Kind)
	assert.Equal(t, int64(0), facts[0].Version)
	assert.Equal(t, domain.FactKindUpdated, facts[1].Kind)
	assert.Equal(t, int64(1), facts[1].Version)
}

// TestOptimisticIsolation runs concurrent updates against one product.
// Every update must land on its own version: the committer's guarded
// apply serializes them without any locking in the usecase.
func TestOptimisticIsolation(t *testing.T) {
	requireEmulator(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	created, err := createUC.Execute(ctx, create_product.Request{
		OwnerID: "user-1",
		Title:   "Lamp",
		Price:   "40.00",
	})
	require.NoError(t, err)
	productID := created.Product.ProductID

	const writers = 2
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = updateUC.Execute(ctx, update_product.Request{
				ProductID:   productID,
				RequesterID: "user-1",
				Title:       "Lamp",
				Price:       fmt.Sprintf("%d.00", 30+i),
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "writer %d", i)
	}

	prod, err := readModel.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(writers), prod.Version)
}

// TestGuardedApplyRejectsStaleVersion drives the committer directly with a
// version that no longer matches the stored row.
func TestGuardedApplyRejectsStaleVersion(t *testing.T) {
	requireEmulator(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := createUC.Execute(ctx, create_product.Request{
		OwnerID: "user-1",
		Title:   "Chair",
		Price:   "55.00",
	})
	require.NoError(t, err)
	productID := created.Product.ProductID

	_, err = updateUC.Execute(ctx, update_product.Request{
		ProductID:   productID,
		RequesterID: "user-1",
		Title:       "Chair",
		Price:       "50.00",
	})
	require.NoError(t, err)

	// The row is at version 1 now; guarding on 0 must fail.
	current, err := readModel.GetProduct(ctx, productID)
	require.NoError(t, err)

	p := domain.ReconstructProduct(productID, "user-1", "Chair",
		domain.NewMoney(current.PriceNum, current.PriceDen),
		current.Version, nil, time.Now().UTC(), time.Now().UTC())
	require.NoError(t, p.ApplyUpdate("user-1", "Chair", domain.NewMoney(45, 1), time.Now().UTC()))

	plan := newUpdatePlan(p)
	err = cm.ApplyGuarded(ctx, productID, 0, plan)
	require.ErrorIs(t, err, domain.ErrVersionConflict)

	prod, err := readModel.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), prod.Version, "stale write must not change the row")
}

// TestReservedProductIsFrozen sets a reservation reference directly in the
// store and verifies the owner can no longer edit.
func TestReservedProductIsFrozen(t *testing.T) {
	requireEmulator(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := createUC.Execute(ctx, create_product.Request{
		OwnerID: "user-1",
		Title:   "Table",
		Price:   "200.00",
	})
	require.NoError(t, err)
	productID := created.Product.ProductID

	// Reserve the product the way the ordering side would.
	_, err = spClient.Apply(ctx, []*spanner.Mutation{
		spanner.Update(m_product.TableName,
			[]string{m_product.ColProductID, m_product.ColReservationRef},
			[]interface{}{productID, "order-42"}),
	})
	require.NoError(t, err)

	factsBefore := len(pub.factsFor(productID))

	_, err = updateUC.Execute(ctx, update_product.Request{
		ProductID:   productID,
		RequesterID: "user-1",
		Title:       "Table",
		Price:       "180.00",
	})
	require.ErrorIs(t, err, domain.ErrProductReserved)

	prod, err := readModel.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, domain.InitialVersion, prod.Version)
	assert.Equal(t, "200.00", prod.Price)
	assert.Equal(t, factsBefore, len(pub.factsFor(productID)), "no fact for a rejected mutation")
}
