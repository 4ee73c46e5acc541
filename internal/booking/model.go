package booking

import "time"

// Booking statuses. Pending is initial; accepted and rejected are terminal.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Booking is a renter's request to rent a property. The rental amount is not
// stored here; it is derived from the property's current monthly price at
// acceptance time.
type Booking struct {
	ID         string
	RenterID   string
	OwnerID    string
	PropertyID string
	StartDate  time.Time
	EndDate    time.Time
	Status     string
	CreatedAt  time.Time
}
