package domain

import (
	"strings"
	"time"
)

// InitialVersion is the version assigned to a product at creation.
// Every accepted mutation advances the version by exactly one.
const InitialVersion int64 = 0

// Product is the aggregate root for the products domain.
// It owns all admission rules for mutations: validation, ownership and the
// reservation freeze. The aggregate is pure - it never touches storage or
// the network; it only computes the next valid state or rejects the
// transition. Side effects are sequenced by the usecase layer.
type Product struct {
	id             string
	ownerID        string
	title          string
	price          *Money
	version        int64
	reservationRef *string
	createdAt      time.Time
	updatedAt      time.Time
	facts          []Fact
}

// NewProduct admits a create request and constructs a new Product at the
// initial version. A creation fact is accumulated on the aggregate.
func NewProduct(id, ownerID, title string, price *Money, now time.Time) (*Product, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	p := &Product{
		id:        id,
		ownerID:   ownerID,
		title:     strings.TrimSpace(title),
		price:     price,
		version:   InitialVersion,
		createdAt: now,
		updatedAt: now,
		facts:     make([]Fact, 0, 1),
	}

	p.facts = append(p.facts, Fact{
		Kind:       FactKindCreated,
		ProductID:  p.id,
		OwnerID:    p.ownerID,
		Title:      p.title,
		Price:      p.price,
		Version:    p.version,
		OccurredAt: now,
	})

	return p, nil
}

// ReconstructProduct rebuilds a Product from persisted state.
// Used when loading from the read model before admitting an update.
func ReconstructProduct(
	id, ownerID, title string,
	price *Money,
	version int64,
	reservationRef *string,
	createdAt, updatedAt time.Time,
) *Product {
	return &Product{
		id:             id,
		ownerID:        ownerID,
		title:          title,
		price:          price,
		version:        version,
		reservationRef: reservationRef,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		facts:          make([]Fact, 0),
	}
}

// Getters

func (p *Product) ID() string {
	return p.id
}

func (p *Product) OwnerID() string {
	return p.ownerID
}

func (p *Product) Title() string {
	return p.title
}

func (p *Product) Price() *Money {
	return p.price
}

// Version is the monotonically increasing mutation counter. It is the sole
// source of truth for "which fact is newest" for any consumer.
func (p *Product) Version() int64 {
	return p.version
}

func (p *Product) ReservationRef() *string {
	return p.reservationRef
}

func (p *Product) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Product) UpdatedAt() time.Time {
	return p.updatedAt
}

// Facts returns the facts accumulated by accepted mutations.
func (p *Product) Facts() []Fact {
	return p.facts
}

// ClearFacts drops the accumulated facts.
// Should be called after the facts have been published.
func (p *Product) ClearFacts() {
	p.facts = p.facts[:0]
}

// IsReserved reports whether an external reservation freezes title/price.
func (p *Product) IsReserved() bool {
	return p.reservationRef != nil
}

// ApplyUpdate admits an update request. Admission order:
// ownership, reservation freeze, then input validation. On success the
// title and price are replaced, the version advances by one and an update
// fact is accumulated.
func (p *Product) ApplyUpdate(requesterID, title string, price *Money, now time.Time) error {
	if requesterID != p.ownerID {
		return ErrNotProductOwner
	}
	if p.IsReserved() {
		return ErrProductReserved
	}
	if err := validateTitle(title); err != nil {
		return err
	}
	if err := validatePrice(price); err != nil {
		return err
	}

	p.title = strings.TrimSpace(title)
	p.price = price
	p.version++
	p.updatedAt = now

	p.facts = append(p.facts, Fact{
		Kind:       FactKindUpdated,
		ProductID:  p.id,
		OwnerID:    p.ownerID,
		Title:      p.title,
		Price:      p.price,
		Version:    p.version,
		OccurredAt: now,
	})

	return nil
}

// Validation helpers

func validateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ErrEmptyTitle
	}
	if len(trimmed) > 255 {
		return ErrTitleTooLong
	}
	return nil
}

func validatePrice(price *Money) error {
	if price == nil || price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}
