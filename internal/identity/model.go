package identity

import "time"

// Roles a registered user can hold. Landlords carry a wallet account; renters
// never do.
const (
	RoleLandlord = "landlord"
	RoleRenter   = "renter"
)

// User represents a registered marketplace participant.
type User struct {
	ID           string
	Phone        string
	Role         string
	PINHash      []byte
	TokenVersion int
	CreatedAt    time.Time
}

// Credentials request structure.
type Credentials struct {
	Phone string
	PIN   string
	Role  string
}
