package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates the referenced booking does not exist.
	ErrNotFound = errors.New("booking not found")

	// ErrFinalized indicates the booking already left the pending state; no
	// further transition is allowed.
	ErrFinalized = errors.New("booking already finalized")
)

// Repository persists bookings. SetStatus enforces pending-only transitions.
type Repository interface {
	Create(ctx context.Context, b Booking) error
	Get(ctx context.Context, id string) (Booking, error)
	SetStatus(ctx context.Context, id, status string) error
	ListByRenter(ctx context.Context, renterID string) ([]Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Booking, error)
}

// PostgresRepository stores bookings in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a pending booking.
func (r *PostgresRepository) Create(ctx context.Context, b Booking) error {
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return err
	}
	renter, err := uuid.Parse(b.RenterID)
	if err != nil {
		return err
	}
	owner, err := uuid.Parse(b.OwnerID)
	if err != nil {
		return err
	}
	propertyID, err := uuid.Parse(b.PropertyID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO bookings (id, renter_id, owner_id, property_id, start_date, end_date, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, renter, owner, propertyID, b.StartDate.UTC(), b.EndDate.UTC(), b.Status, b.CreatedAt.UTC())
	return err
}

// Get fetches a booking by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Booking, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return Booking{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, renter_id, owner_id, property_id, start_date, end_date, status, created_at
        FROM bookings WHERE id = $1`, bookingID)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, err
	}
	return b, nil
}

// SetStatus moves a pending booking to a terminal status. The conditional
// update makes the pending check and the write one atomic statement.
func (r *PostgresRepository) SetStatus(ctx context.Context, id, status string) error {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET status = $1 WHERE id = $2 AND status = $3`,
		status, bookingID, StatusPending)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return getErr
		}
		return ErrFinalized
	}
	return nil
}

// ListByRenter returns a renter's bookings newest-first.
func (r *PostgresRepository) ListByRenter(ctx context.Context, renterID string) ([]Booking, error) {
	return r.list(ctx, `SELECT id, renter_id, owner_id, property_id, start_date, end_date, status, created_at
        FROM bookings WHERE renter_id = $1 ORDER BY created_at DESC`, renterID)
}

// ListByOwner returns the bookings requested against a landlord's properties.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Booking, error) {
	return r.list(ctx, `SELECT id, renter_id, owner_id, property_id, start_date, end_date, status, created_at
        FROM bookings WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (r *PostgresRepository) list(ctx context.Context, query, userID string) ([]Booking, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row) (Booking, error) {
	var (
		b                       Booking
		id, renter, owner, prop uuid.UUID
		start, end, createdAt   time.Time
	)
	if err := row.Scan(&id, &renter, &owner, &prop, &start, &end, &b.Status, &createdAt); err != nil {
		return Booking{}, err
	}
	b.ID = id.String()
	b.RenterID = renter.String()
	b.OwnerID = owner.String()
	b.PropertyID = prop.String()
	b.StartDate = start.UTC()
	b.EndDate = end.UTC()
	b.CreatedAt = createdAt.UTC()
	return b, nil
}
