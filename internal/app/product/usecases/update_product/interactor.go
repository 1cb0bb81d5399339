package update_product

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	contracts "github.com/weibuddies/products-service/internal/app/product/contracts"
	"github.com/weibuddies/products-service/internal/app/product/domain"
	"github.com/weibuddies/products-service/internal/app/product/dto"
	shared "github.com/weibuddies/products-service/internal/app/product/usecases/shared"
	"github.com/weibuddies/products-service/internal/pkg/clock"
	commitplan "github.com/weibuddies/products-service/internal/pkg/committer"
)

// writeAttempts bounds the optimistic persist retries, first try included.
const writeAttempts = 3

// Request represents the update product request.
type Request struct {
	ProductID   string
	RequesterID string
	Title       string
	Price       string // decimal string, e.g. "19.99"
}

// Result carries the updated product and whether fact publication had to
// be given up on after the store write committed.
type Result struct {
	Product         *dto.ProductDTO
	PublishDegraded bool
}

// Interactor sequences one update: fetch current state, admit the
// transition, persist behind a version guard, publish the fact. When the
// guarded write loses a race it re-fetches and re-admits; admission is
// pure, so re-running it is cheap and cannot leave stale side effects.
type Interactor struct {
	ProductRepo contracts.ProductRepo
	Committer   contracts.Committer
	Publisher   contracts.FactPublisher
	ReadModel   contracts.ReadModel
	Clock       clock.Clock
	Logger      *zap.Logger
}

func NewInteractor(repo contracts.ProductRepo, committer contracts.Committer, publisher contracts.FactPublisher, readModel contracts.ReadModel, clk clock.Clock, logger *zap.Logger) *Interactor {
	return &Interactor{
		ProductRepo: repo,
		Committer:   committer,
		Publisher:   publisher,
		ReadModel:   readModel,
		Clock:       clk,
		Logger:      logger,
	}
}

func (it *Interactor) Execute(ctx context.Context, req Request) (*Result, error) {
	price, err := domain.NewMoneyFromDecimal(req.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPrice, err)
	}

	var product *domain.Product

	for attempt := 0; attempt < writeAttempts; attempt++ {
		now := it.Clock.Now()

		// 1. Fetch current state.
		current, err := it.ReadModel.GetProduct(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}

		product = reconstruct(current)

		// 2. Admit. Rejections are terminal: no side effects have occurred.
		if err := product.ApplyUpdate(req.RequesterID, req.Title, price, now); err != nil {
			return nil, err
		}

		// 3. Persist behind the version read in step 1. A mismatch means a
		// concurrent mutation won the race; go around again.
		plan := commitplan.NewPlan()
		plan.Add(it.ProductRepo.UpdateMut(product))

		err = it.Committer.ApplyGuarded(ctx, req.ProductID, current.Version, plan)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrVersionConflict) {
			product = nil
			continue
		}
		return nil, err
	}

	if product == nil {
		return nil, domain.ErrVersionConflict
	}

	// 4. Publish. The write is durable from here on; publishing runs
	// detached from the request's cancellation, bounded by its own timeout.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shared.PublishTimeout)
	defer cancel()

	degraded := shared.PublishFacts(pubCtx, it.Publisher, it.Logger, product.Facts())
	product.ClearFacts()

	return &Result{
		Product:         shared.ProductDTO(product),
		PublishDegraded: degraded,
	}, nil
}

func reconstruct(d *dto.ProductDTO) *domain.Product {
	createdAt := dto.ParseTimePtr(d.CreatedAt)
	updatedAt := dto.ParseTimePtr(d.UpdatedAt)

	return domain.ReconstructProduct(
		d.ProductID,
		d.OwnerID,
		d.Title,
		domain.NewMoney(d.PriceNum, d.PriceDen),
		d.Version,
		d.ReservationRef,
		dto.TimeOrZero(createdAt),
		dto.TimeOrZero(updatedAt),
	)
}
