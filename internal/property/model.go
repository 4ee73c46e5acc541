package property

import "time"

// Property is a rental listing owned by a landlord. PricePerMonth is the
// commission base used when a booking against it is accepted.
type Property struct {
	ID            string
	OwnerID       string
	Title         string
	City          string
	PricePerMonth int64
	Available     bool
	CreatedAt     time.Time
}
