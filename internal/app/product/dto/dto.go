package dto

import "time"

// ProductDTO contains full product fields returned by read queries.
// Timestamps use *string (RFC3339) to mirror how they typically come from
// Spanner/SQL. Use helpers to parse them into time.Time.
type ProductDTO struct {
	ProductID      string
	OwnerID        string
	Title          string
	PriceNum       int64
	PriceDen       int64
	Version        int64
	ReservationRef *string
	CreatedAt      *string
	UpdatedAt      *string

	// Price is a two-digit decimal string computed by the read query for
	// API responses.
	Price string
}

// ParseTimePtr parses an RFC3339 string pointer into *time.Time.
// Returns nil if input is nil, empty, or parsing fails.
func ParseTimePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	tt := t.UTC()
	return &tt
}

// TimeOrZero returns the dereferenced time or zero time if nil.
func TimeOrZero(p *time.Time) time.Time {
	if p == nil {
		return time.Time{}
	}
	return *p
}
