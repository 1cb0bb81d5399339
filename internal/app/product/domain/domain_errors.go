package domain

import "errors"

// Validation errors
var (
	// ErrEmptyTitle indicates an attempt to create/update a product with an empty title.
	ErrEmptyTitle = errors.New("product title cannot be empty")

	// ErrTitleTooLong indicates the product title exceeds maximum length.
	ErrTitleTooLong = errors.New("product title exceeds maximum length of 255 characters")

	// ErrNegativePrice indicates an attempt to set a negative price.
	ErrNegativePrice = errors.New("product price cannot be negative")

	// ErrInvalidPrice indicates a price that could not be parsed as a decimal.
	ErrInvalidPrice = errors.New("product price is not a valid decimal")
)

// Business-rule errors
var (
	// ErrProductNotFound indicates that a product with the given ID does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrNotProductOwner indicates a mutation attempted by someone other than the owner.
	ErrNotProductOwner = errors.New("requester is not the product owner")

	// ErrProductReserved indicates a mutation on a product frozen by a reservation.
	ErrProductReserved = errors.New("product is reserved and cannot be edited")
)

// Persistence errors surfaced to the application layer
var (
	// ErrVersionConflict indicates an optimistic write lost the race: the stored
	// version no longer matches the version the mutation was admitted against.
	ErrVersionConflict = errors.New("product version conflict")

	// ErrProductExists indicates an insert collided with an existing product id.
	ErrProductExists = errors.New("product already exists")
)
