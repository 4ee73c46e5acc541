package property

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ALAAWF2/arabi-rent-home/internal/identity"
	"github.com/ALAAWF2/arabi-rent-home/internal/wallet"
)

// ErrNotOwner indicates the caller does not own the listing.
var ErrNotOwner = errors.New("not owner of property")

// Service manages property listings. Creating a listing is gated on the
// landlord's account being active.
type Service struct {
	repo    Repository
	wallets *wallet.Service
}

// NewService builds a property service instance.
func NewService(repo Repository, wallets *wallet.Service) *Service {
	return &Service{repo: repo, wallets: wallets}
}

// CreateInput captures data required to publish a listing.
type CreateInput struct {
	OwnerID       string
	Role          string
	Title         string
	City          string
	PricePerMonth int64
}

// Create publishes a listing for an active landlord.
func (s *Service) Create(ctx context.Context, input CreateInput) (Property, error) {
	if input.Role != identity.RoleLandlord {
		return Property{}, errors.New("only landlords can publish listings")
	}
	if input.Title == "" {
		return Property{}, errors.New("title is required")
	}
	if input.PricePerMonth < 0 {
		return Property{}, errors.New("price must not be negative")
	}

	active, err := s.wallets.StatusActive(ctx, input.OwnerID, input.Role)
	if err != nil {
		return Property{}, err
	}
	if !active {
		return Property{}, wallet.ErrAccountSuspended
	}

	p := Property{
		ID:            uuid.NewString(),
		OwnerID:       input.OwnerID,
		Title:         input.Title,
		City:          input.City,
		PricePerMonth: input.PricePerMonth,
		Available:     true,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Property{}, err
	}
	return p, nil
}

// Get retrieves a listing.
func (s *Service) Get(ctx context.Context, id string) (Property, error) {
	return s.repo.Get(ctx, id)
}

// UpdateInput captures the mutable listing fields.
type UpdateInput struct {
	ID            string
	OwnerID       string
	Title         string
	City          string
	PricePerMonth int64
	Available     bool
}

// Update rewrites a listing's fields; only the owner may do so. The new price
// becomes the commission base for any booking accepted afterwards.
func (s *Service) Update(ctx context.Context, input UpdateInput) (Property, error) {
	existing, err := s.repo.Get(ctx, input.ID)
	if err != nil {
		return Property{}, err
	}
	if existing.OwnerID != input.OwnerID {
		return Property{}, ErrNotOwner
	}
	if input.PricePerMonth < 0 {
		return Property{}, errors.New("price must not be negative")
	}

	existing.Title = input.Title
	existing.City = input.City
	existing.PricePerMonth = input.PricePerMonth
	existing.Available = input.Available
	if err := s.repo.Update(ctx, existing); err != nil {
		return Property{}, err
	}
	return existing, nil
}

// Delete removes a listing; only the owner may do so.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}

// ListAvailable returns listings open for booking requests.
func (s *Service) ListAvailable(ctx context.Context) ([]Property, error) {
	return s.repo.ListAvailable(ctx)
}

// ListByOwner returns a landlord's listings.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Property, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}
