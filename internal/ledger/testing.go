package ledger

// SeedBalance is a test helper that overwrites the balance for an account when
// using the in-memory ledger. Status is left untouched.
func SeedBalance(l Ledger, ownerID string, amount int64) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		if acct, exists := mem.accounts[ownerID]; exists {
			acct.Balance = amount
		}
	}
}
