package create_product

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	contracts "github.com/weibuddies/products-service/internal/app/product/contracts"
	"github.com/weibuddies/products-service/internal/app/product/domain"
	"github.com/weibuddies/products-service/internal/app/product/dto"
	shared "github.com/weibuddies/products-service/internal/app/product/usecases/shared"
	"github.com/weibuddies/products-service/internal/pkg/clock"
	commitplan "github.com/weibuddies/products-service/internal/pkg/committer"
)

// Request is the application-level create-product request.
type Request struct {
	OwnerID string
	Title   string
	Price   string // decimal string, e.g. "19.99"
}

// Result carries the created product and whether fact publication had to
// be given up on after the store write committed.
type Result struct {
	Product         *dto.ProductDTO
	PublishDegraded bool
}

// Interactor implements the create-product usecase: admit the new state,
// persist it, then publish the creation fact.
type Interactor struct {
	ProductRepo contracts.ProductRepo
	Committer   contracts.Committer
	Publisher   contracts.FactPublisher
	Clock       clock.Clock
	Logger      *zap.Logger
}

// NewInteractor constructs the interactor.
func NewInteractor(repo contracts.ProductRepo, committer contracts.Committer, publisher contracts.FactPublisher, clk clock.Clock, logger *zap.Logger) *Interactor {
	return &Interactor{
		ProductRepo: repo,
		Committer:   committer,
		Publisher:   publisher,
		Clock:       clk,
		Logger:      logger,
	}
}

// Execute creates a new product at the initial version. Admission is pure;
// nothing is written or published when it rejects.
func (it *Interactor) Execute(ctx context.Context, req Request) (*Result, error) {
	now := it.Clock.Now()

	price, err := domain.NewMoneyFromDecimal(req.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPrice, err)
	}

	id := uuid.New().String()
	product, err := domain.NewProduct(id, req.OwnerID, req.Title, price, now)
	if err != nil {
		return nil, err
	}

	plan := commitplan.NewPlan()
	plan.Add(it.ProductRepo.InsertMut(product))

	if err := it.Committer.Apply(ctx, plan); err != nil {
		return nil, err
	}

	// The write is durable from here on. Publishing is detached from the
	// request's cancellation and bounded by its own timeout.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shared.PublishTimeout)
	defer cancel()

	degraded := shared.PublishFacts(pubCtx, it.Publisher, it.Logger, product.Facts())
	product.ClearFacts()

	return &Result{
		Product:         shared.ProductDTO(product),
		PublishDegraded: degraded,
	}, nil
}
