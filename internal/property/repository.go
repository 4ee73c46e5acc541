package property

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the referenced property does not exist (or was deleted).
var ErrNotFound = errors.New("property not found")

// Repository persists property listings.
type Repository interface {
	Create(ctx context.Context, p Property) error
	Get(ctx context.Context, id string) (Property, error)
	Update(ctx context.Context, p Property) error
	Delete(ctx context.Context, id string) error
	ListAvailable(ctx context.Context) ([]Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Property, error)
}

// PostgresRepository stores properties in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a listing.
func (r *PostgresRepository) Create(ctx context.Context, p Property) error {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return err
	}
	owner, err := uuid.Parse(p.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO properties (id, owner_id, title, city, price_per_month, available, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, owner, p.Title, p.City, p.PricePerMonth, p.Available, p.CreatedAt.UTC())
	return err
}

// Get fetches a listing by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Property, error) {
	propertyID, err := uuid.Parse(id)
	if err != nil {
		return Property{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, title, city, price_per_month, available, created_at
        FROM properties WHERE id = $1`, propertyID)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, ErrNotFound
		}
		return Property{}, err
	}
	return p, nil
}

// Update rewrites the mutable listing fields.
func (r *PostgresRepository) Update(ctx context.Context, p Property) error {
	propertyID, err := uuid.Parse(p.ID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE properties SET title = $1, city = $2, price_per_month = $3, available = $4
        WHERE id = $5`, p.Title, p.City, p.PricePerMonth, p.Available, propertyID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a listing. Bookings referencing it fall back to a zero
// rental amount at acceptance time.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	propertyID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, propertyID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAvailable returns listings currently open for booking requests.
func (r *PostgresRepository) ListAvailable(ctx context.Context) ([]Property, error) {
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, title, city, price_per_month, available, created_at
        FROM properties WHERE available ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProperties(rows)
}

// ListByOwner returns all listings for a landlord.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Property, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, title, city, price_per_month, available, created_at
        FROM properties WHERE owner_id = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProperties(rows)
}

func scanProperty(row pgx.Row) (Property, error) {
	var (
		p         Property
		id, owner uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&id, &owner, &p.Title, &p.City, &p.PricePerMonth, &p.Available, &createdAt); err != nil {
		return Property{}, err
	}
	p.ID = id.String()
	p.OwnerID = owner.String()
	p.CreatedAt = createdAt.UTC()
	return p, nil
}

func scanProperties(rows pgx.Rows) ([]Property, error) {
	var out []Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
