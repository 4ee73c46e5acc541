package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type inMemoryLedger struct {
	mu       sync.RWMutex
	policy   Policy
	accounts map[string]*Account
	entries  map[string][]Transaction
}

// NewInMemory creates a concurrency-safe in-memory ledger used in dev mode and
// unit tests.
func NewInMemory(policy Policy) Ledger {
	return &inMemoryLedger{
		policy:   policy,
		accounts: make(map[string]*Account),
		entries:  make(map[string][]Transaction),
	}
}

func (l *inMemoryLedger) EnsureAccount(_ context.Context, ownerID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.accounts[ownerID]; !exists {
		l.accounts[ownerID] = &Account{
			OwnerID:   ownerID,
			Balance:   0,
			Status:    StatusActive,
			CreatedAt: time.Now().UTC(),
		}
	}
	return nil
}

func (l *inMemoryLedger) Account(_ context.Context, ownerID string) (Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acct, ok := l.accounts[ownerID]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return *acct, nil
}

func (l *inMemoryLedger) DeductCommission(_ context.Context, ownerID string, posting CommissionPosting) (PostingResult, error) {
	if posting.RentalAmount < 0 {
		return PostingResult{}, ErrNegativeRental
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acct, ok := l.accounts[ownerID]
	if !ok {
		return PostingResult{}, ErrAccountNotFound
	}

	commission := l.policy.CommissionFor(posting.RentalAmount)
	newBalance := acct.Balance - commission

	// Suspension is sticky: only a deduction at or below the threshold flips
	// status, and nothing here ever flips it back.
	status := acct.Status
	if newBalance <= l.policy.SuspensionThreshold {
		status = StatusSuspended
	}

	now := time.Now().UTC()
	tx := Transaction{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Type:         TypeCommission,
		Amount:       -commission,
		Description:  posting.Description,
		BookingID:    posting.BookingID,
		PropertyID:   posting.PropertyID,
		BalanceAfter: newBalance,
		CreatedAt:    now,
	}
	l.entries[ownerID] = append(l.entries[ownerID], tx)

	acct.Balance = newBalance
	acct.Status = status
	acct.LastTransactionAt = now

	return PostingResult{TransactionID: tx.ID, Balance: newBalance, Status: status}, nil
}

func (l *inMemoryLedger) Recharge(_ context.Context, ownerID string, amount int64, description string) (PostingResult, error) {
	if amount <= 0 {
		return PostingResult{}, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acct, ok := l.accounts[ownerID]
	if !ok {
		return PostingResult{}, ErrAccountNotFound
	}

	newBalance := acct.Balance + amount

	// Reactivation requires the balance to rise strictly above the
	// reactivation threshold, not merely above the suspension threshold.
	status := acct.Status
	if newBalance > l.policy.ReactivationThreshold {
		status = StatusActive
	}

	now := time.Now().UTC()
	tx := Transaction{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Type:         TypeRecharge,
		Amount:       amount,
		Description:  description,
		BalanceAfter: newBalance,
		CreatedAt:    now,
	}
	l.entries[ownerID] = append(l.entries[ownerID], tx)

	acct.Balance = newBalance
	acct.Status = status
	acct.LastTransactionAt = now

	return PostingResult{TransactionID: tx.ID, Balance: newBalance, Status: status}, nil
}

func (l *inMemoryLedger) Transactions(_ context.Context, ownerID string, limit int) ([]Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, ok := l.accounts[ownerID]; !ok {
		return nil, ErrAccountNotFound
	}

	entries := l.entries[ownerID]
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}

	// Entries are appended oldest-first; return a newest-first copy.
	out := make([]Transaction, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}
