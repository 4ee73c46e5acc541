package ledger

import (
	"context"
	"errors"
	"math"
	"time"
)

var (
	// ErrInvalidAmount indicates a recharge amount of zero or less; nothing is
	// written when it is returned.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrAccountNotFound indicates no wallet account exists for the landlord.
	ErrAccountNotFound = errors.New("wallet account not found")

	// ErrNegativeRental indicates a commission deduction was requested against
	// a negative rental amount.
	ErrNegativeRental = errors.New("rental amount must not be negative")
)

// Account status values. An account starts active and moves to suspended only
// when a commission deduction drives the balance to the suspension threshold.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Transaction types recorded in the ledger.
const (
	TypeCommission = "commission"
	TypeRecharge   = "recharge"
)

// Policy carries the commission rate and the balance thresholds that drive the
// account status state machine.
type Policy struct {
	CommissionRate        float64
	SuspensionThreshold   int64
	ReactivationThreshold int64
}

// DefaultPolicy returns the stock marketplace policy: 2.5% commission,
// suspension at -100, reactivation strictly above 0.
func DefaultPolicy() Policy {
	return Policy{
		CommissionRate:        0.025,
		SuspensionThreshold:   -100,
		ReactivationThreshold: 0,
	}
}

// CommissionFor computes the commission owed on a rental amount, rounded half
// away from zero to a whole currency unit.
func (p Policy) CommissionFor(rentalAmount int64) int64 {
	return int64(math.Round(float64(rentalAmount) * p.CommissionRate))
}

// Account is the mutable balance/status record for one landlord. Its balance
// changes only through DeductCommission and Recharge.
type Account struct {
	OwnerID           string
	Balance           int64
	Status            string
	LastTransactionAt time.Time
	CreatedAt         time.Time
}

// Active reports whether the account may accept bookings and list properties.
func (a Account) Active() bool {
	return a.Status == StatusActive
}

// Transaction is one immutable ledger entry. BalanceAfter snapshots the
// account balance immediately after the entry was applied.
type Transaction struct {
	ID           string
	OwnerID      string
	Type         string
	Amount       int64
	Description  string
	BookingID    string
	PropertyID   string
	BalanceAfter int64
	CreatedAt    time.Time
}

// CommissionPosting describes a commission deduction tied to an accepted booking.
type CommissionPosting struct {
	BookingID    string
	PropertyID   string
	RentalAmount int64
	Description  string
}

// PostingResult reports the ledger state right after a posting, so callers can
// surface the fresh balance without a second read.
type PostingResult struct {
	TransactionID string
	Balance       int64
	Status        string
}

// Ledger is the contract implemented by ledger backends. Every mutation must
// apply the transaction append, the balance update and the status transition
// as one atomic step.
type Ledger interface {
	// EnsureAccount provisions a zero-balance active account if none exists.
	EnsureAccount(ctx context.Context, ownerID string) error
	// Account re-reads the authoritative balance/status record.
	Account(ctx context.Context, ownerID string) (Account, error)
	// DeductCommission charges the owner for an accepted booking, suspending
	// the account when the new balance reaches the suspension threshold.
	DeductCommission(ctx context.Context, ownerID string, posting CommissionPosting) (PostingResult, error)
	// Recharge credits the owner's balance, reactivating the account when the
	// new balance rises strictly above the reactivation threshold.
	Recharge(ctx context.Context, ownerID string, amount int64, description string) (PostingResult, error)
	// Transactions returns the owner's entries newest-first, at most limit.
	Transactions(ctx context.Context, ownerID string, limit int) ([]Transaction, error)
}
