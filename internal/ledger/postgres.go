package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger persists wallet accounts and transactions in PostgreSQL.
// Each posting locks the account row, appends the transaction and updates the
// balance/status inside one database transaction, so concurrent postings for
// the same landlord serialize and the transaction log never disagrees with the
// stored balance.
type PostgresLedger struct {
	db     *pgxpool.Pool
	policy Policy
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool, policy Policy) *PostgresLedger {
	return &PostgresLedger{db: db, policy: policy}
}

// EnsureAccount guarantees a zero-balance active account exists for the owner.
func (l *PostgresLedger) EnsureAccount(ctx context.Context, ownerID string) error {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return fmt.Errorf("parse owner id: %w", err)
	}
	_, err = l.db.Exec(ctx, `INSERT INTO wallet_accounts (owner_id, balance, status, created_at)
        VALUES ($1, 0, $2, $3) ON CONFLICT (owner_id) DO NOTHING`, owner, StatusActive, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("ensure wallet account: %w", err)
	}
	return nil
}

// Account re-reads the authoritative balance/status record for the owner.
func (l *PostgresLedger) Account(ctx context.Context, ownerID string) (Account, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return Account{}, fmt.Errorf("parse owner id: %w", err)
	}
	row := l.db.QueryRow(ctx, `SELECT balance, status, last_transaction_at, created_at
        FROM wallet_accounts WHERE owner_id = $1`, owner)
	return scanAccount(row, ownerID)
}

// DeductCommission charges the commission for an accepted booking against the
// owner's balance, suspending the account when the result reaches the
// suspension threshold.
func (l *PostgresLedger) DeductCommission(ctx context.Context, ownerID string, posting CommissionPosting) (PostingResult, error) {
	if posting.RentalAmount < 0 {
		return PostingResult{}, ErrNegativeRental
	}
	commission := l.policy.CommissionFor(posting.RentalAmount)

	return l.post(ctx, ownerID, func(balance int64, status string) (Transaction, string) {
		newBalance := balance - commission
		if newBalance <= l.policy.SuspensionThreshold {
			status = StatusSuspended
		}
		return Transaction{
			Type:         TypeCommission,
			Amount:       -commission,
			Description:  posting.Description,
			BookingID:    posting.BookingID,
			PropertyID:   posting.PropertyID,
			BalanceAfter: newBalance,
		}, status
	})
}

// Recharge credits the owner's balance, reactivating the account when the new
// balance rises strictly above the reactivation threshold.
func (l *PostgresLedger) Recharge(ctx context.Context, ownerID string, amount int64, description string) (PostingResult, error) {
	if amount <= 0 {
		return PostingResult{}, ErrInvalidAmount
	}

	return l.post(ctx, ownerID, func(balance int64, status string) (Transaction, string) {
		newBalance := balance + amount
		if newBalance > l.policy.ReactivationThreshold {
			status = StatusActive
		}
		return Transaction{
			Type:         TypeRecharge,
			Amount:       amount,
			Description:  description,
			BalanceAfter: newBalance,
		}, status
	})
}

// post applies one ledger mutation: lock the account row, let apply compute
// the entry and resulting status from the current balance, then append the
// transaction and update the account in the same database transaction.
func (l *PostgresLedger) post(ctx context.Context, ownerID string, apply func(balance int64, status string) (Transaction, string)) (PostingResult, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return PostingResult{}, fmt.Errorf("parse owner id: %w", err)
	}

	dbtx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return PostingResult{}, fmt.Errorf("begin posting: %w", err)
	}
	defer dbtx.Rollback(ctx) // nolint:errcheck

	var balance int64
	var status string
	err = dbtx.QueryRow(ctx, `SELECT balance, status FROM wallet_accounts
        WHERE owner_id = $1 FOR UPDATE`, owner).Scan(&balance, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PostingResult{}, ErrAccountNotFound
		}
		return PostingResult{}, fmt.Errorf("lock wallet account: %w", err)
	}

	entry, newStatus := apply(balance, status)
	entry.ID = uuid.NewString()
	entry.OwnerID = ownerID
	entry.CreatedAt = time.Now().UTC()

	var bookingID, propertyID any
	if entry.BookingID != "" {
		bookingID = entry.BookingID
	}
	if entry.PropertyID != "" {
		propertyID = entry.PropertyID
	}

	if _, err := dbtx.Exec(ctx, `INSERT INTO wallet_transactions
        (id, owner_id, type, amount, description, booking_id, property_id, balance_after, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, owner, entry.Type, entry.Amount, entry.Description,
		bookingID, propertyID, entry.BalanceAfter, entry.CreatedAt); err != nil {
		return PostingResult{}, fmt.Errorf("append transaction: %w", err)
	}

	if _, err := dbtx.Exec(ctx, `UPDATE wallet_accounts
        SET balance = $1, status = $2, last_transaction_at = $3
        WHERE owner_id = $4`,
		entry.BalanceAfter, newStatus, entry.CreatedAt, owner); err != nil {
		return PostingResult{}, fmt.Errorf("update wallet account: %w", err)
	}

	if err := dbtx.Commit(ctx); err != nil {
		return PostingResult{}, fmt.Errorf("commit posting: %w", err)
	}

	return PostingResult{TransactionID: entry.ID, Balance: entry.BalanceAfter, Status: newStatus}, nil
}

// Transactions returns the owner's ledger entries newest-first, at most limit.
func (l *PostgresLedger) Transactions(ctx context.Context, ownerID string, limit int) ([]Transaction, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("parse owner id: %w", err)
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.Query(ctx, `SELECT id, type, amount, description, booking_id, property_id, balance_after, created_at
        FROM wallet_transactions WHERE owner_id = $1
        ORDER BY created_at DESC, id DESC LIMIT $2`, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var (
			tx         Transaction
			id         uuid.UUID
			bookingID  *uuid.UUID
			propertyID *uuid.UUID
			createdAt  time.Time
		)
		if err := rows.Scan(&id, &tx.Type, &tx.Amount, &tx.Description, &bookingID, &propertyID, &tx.BalanceAfter, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.ID = id.String()
		tx.OwnerID = ownerID
		if bookingID != nil {
			tx.BookingID = bookingID.String()
		}
		if propertyID != nil {
			tx.PropertyID = propertyID.String()
		}
		tx.CreatedAt = createdAt.UTC()
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func scanAccount(row pgx.Row, ownerID string) (Account, error) {
	var (
		acct   Account
		lastTx *time.Time
	)
	if err := row.Scan(&acct.Balance, &acct.Status, &lastTx, &acct.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("scan wallet account: %w", err)
	}
	acct.OwnerID = ownerID
	if lastTx != nil {
		acct.LastTransactionAt = lastTx.UTC()
	}
	acct.CreatedAt = acct.CreatedAt.UTC()
	return acct, nil
}
