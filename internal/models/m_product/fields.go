package m_product

// Field constants for the products table.
const (
	TableName = "products"

	ColProductID        = "product_id"
	ColOwnerID          = "owner_id"
	ColTitle            = "title"
	ColPriceNumerator   = "price_numerator"
	ColPriceDenominator = "price_denominator"
	ColVersion          = "version"
	ColReservationRef   = "reservation_ref"
	ColCreatedAt        = "created_at"
	ColUpdatedAt        = "updated_at"
)
