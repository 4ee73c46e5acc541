package wallet

import "errors"

// ErrAccountSuspended gates actions requiring a healthy landlord account:
// accepting bookings and publishing new listings.
var ErrAccountSuspended = errors.New("account is suspended, recharge your wallet to continue")
