package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ALAAWF2/arabi-rent-home/internal/ledger"
	"github.com/ALAAWF2/arabi-rent-home/internal/notification"
	"github.com/ALAAWF2/arabi-rent-home/internal/property"
	"github.com/ALAAWF2/arabi-rent-home/internal/wallet"
)

var (
	// ErrNotOwner indicates the caller does not own the property behind the booking.
	ErrNotOwner = errors.New("not owner of booking")

	// ErrConfirmationRequired indicates the caller skipped the commission
	// preview confirmation step.
	ErrConfirmationRequired = errors.New("acceptance must be confirmed")
)

// Service sequences the booking lifecycle. Acceptance always deducts the
// commission before the booking is marked accepted; rejection never touches
// the ledger.
type Service struct {
	repo       Repository
	properties *property.Service
	wallets    *wallet.Service
	policy     ledger.Policy
	notifier   notification.Notifier
	logger     *slog.Logger
}

// NewService constructs a booking service.
func NewService(repo Repository, properties *property.Service, wallets *wallet.Service, policy ledger.Policy, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		properties: properties,
		wallets:    wallets,
		policy:     policy,
		notifier:   notifier,
		logger:     logger,
	}
}

// RequestInput captures a renter's booking request.
type RequestInput struct {
	RenterID   string
	PropertyID string
	StartDate  time.Time
	EndDate    time.Time
}

// Request creates a pending booking against an available property.
func (s *Service) Request(ctx context.Context, input RequestInput) (Booking, error) {
	prop, err := s.properties.Get(ctx, input.PropertyID)
	if err != nil {
		return Booking{}, err
	}
	if !prop.Available {
		return Booking{}, errors.New("property is not available")
	}
	if prop.OwnerID == input.RenterID {
		return Booking{}, errors.New("cannot book your own property")
	}
	if !input.EndDate.After(input.StartDate) {
		return Booking{}, errors.New("end date must be after start date")
	}

	b := Booking{
		ID:         uuid.NewString(),
		RenterID:   input.RenterID,
		OwnerID:    prop.OwnerID,
		PropertyID: input.PropertyID,
		StartDate:  input.StartDate.UTC(),
		EndDate:    input.EndDate.UTC(),
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Booking{}, err
	}
	return b, nil
}

// AcceptancePreview shows the landlord what accepting a booking will cost
// before anything is written.
type AcceptancePreview struct {
	BookingID         string
	RentalAmount      int64
	Commission        int64
	CurrentBalance    int64
	ProjectedBalance  int64
	SuspensionWarning bool
}

// Preview computes the commission and projected balance for a pending booking.
// Read-only; the property's price is resolved at call time.
func (s *Service) Preview(ctx context.Context, bookingID, ownerID string) (AcceptancePreview, error) {
	b, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return AcceptancePreview{}, err
	}
	if b.OwnerID != ownerID {
		return AcceptancePreview{}, ErrNotOwner
	}
	if b.Status != StatusPending {
		return AcceptancePreview{}, ErrFinalized
	}

	rental, err := s.resolveRentalAmount(ctx, b.PropertyID)
	if err != nil {
		return AcceptancePreview{}, err
	}
	acct, err := s.wallets.Overview(ctx, ownerID)
	if err != nil {
		return AcceptancePreview{}, err
	}

	commission := s.policy.CommissionFor(rental)
	projected := acct.Balance - commission
	return AcceptancePreview{
		BookingID:         b.ID,
		RentalAmount:      rental,
		Commission:        commission,
		CurrentBalance:    acct.Balance,
		ProjectedBalance:  projected,
		SuspensionWarning: projected <= s.policy.SuspensionThreshold,
	}, nil
}

// AcceptInput captures the landlord's confirmed acceptance.
type AcceptInput struct {
	BookingID string
	OwnerID   string
	Role      string
	Confirm   bool
}

// AcceptResult carries the accepted booking together with the wallet state
// after the commission charge.
type AcceptResult struct {
	Booking    Booking
	Commission int64
	Balance    int64
	Status     string
}

// Accept runs the acceptance protocol: status guard, price resolution,
// commission deduction, then the booking status write. A deduction failure
// leaves the booking pending.
func (s *Service) Accept(ctx context.Context, input AcceptInput) (AcceptResult, error) {
	b, err := s.repo.Get(ctx, input.BookingID)
	if err != nil {
		return AcceptResult{}, err
	}
	if b.OwnerID != input.OwnerID {
		return AcceptResult{}, ErrNotOwner
	}
	if b.Status != StatusPending {
		return AcceptResult{}, ErrFinalized
	}
	if !input.Confirm {
		return AcceptResult{}, ErrConfirmationRequired
	}

	active, err := s.wallets.StatusActive(ctx, input.OwnerID, input.Role)
	if err != nil {
		return AcceptResult{}, err
	}
	if !active {
		return AcceptResult{}, wallet.ErrAccountSuspended
	}

	// Current monthly price, not the price when the booking was requested. A
	// deleted or unpriced property yields a zero commission, by design.
	rental, err := s.resolveRentalAmount(ctx, b.PropertyID)
	if err != nil {
		return AcceptResult{}, err
	}

	res, err := s.wallets.DeductCommission(ctx, input.OwnerID, ledger.CommissionPosting{
		BookingID:    b.ID,
		PropertyID:   b.PropertyID,
		RentalAmount: rental,
		Description:  fmt.Sprintf("commission for booking %s", b.ID),
	})
	if err != nil {
		return AcceptResult{}, fmt.Errorf("deduct commission: %w", err)
	}

	if err := s.repo.SetStatus(ctx, b.ID, StatusAccepted); err != nil {
		// The commission is already committed; surface the failure loudly so
		// the charge can be reconciled instead of silently losing it.
		if s.logger != nil {
			s.logger.Error("commission charged but booking status write failed",
				slog.String("booking_id", b.ID),
				slog.String("owner_id", input.OwnerID),
				slog.String("transaction_id", res.TransactionID),
				slog.Any("error", err),
			)
		}
		return AcceptResult{}, fmt.Errorf("booking accepted in ledger but status write failed: %w", err)
	}
	b.Status = StatusAccepted

	s.notify(ctx, notification.Message{
		Kind:        notification.KindBookingAccepted,
		Destination: b.RenterID,
		Body:        fmt.Sprintf("Your booking %s was accepted", b.ID),
	})

	return AcceptResult{
		Booking:    b,
		Commission: s.policy.CommissionFor(rental),
		Balance:    res.Balance,
		Status:     res.Status,
	}, nil
}

// Reject marks a pending booking rejected. No account guard, no ledger entry.
func (s *Service) Reject(ctx context.Context, bookingID, ownerID string) (Booking, error) {
	b, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return Booking{}, err
	}
	if b.OwnerID != ownerID {
		return Booking{}, ErrNotOwner
	}
	if err := s.repo.SetStatus(ctx, b.ID, StatusRejected); err != nil {
		return Booking{}, err
	}
	b.Status = StatusRejected

	s.notify(ctx, notification.Message{
		Kind:        notification.KindBookingRejected,
		Destination: b.RenterID,
		Body:        fmt.Sprintf("Your booking %s was rejected", b.ID),
	})
	return b, nil
}

// ListForRenter returns the renter's bookings newest-first.
func (s *Service) ListForRenter(ctx context.Context, renterID string) ([]Booking, error) {
	return s.repo.ListByRenter(ctx, renterID)
}

// ListForOwner returns bookings requested against the landlord's properties.
func (s *Service) ListForOwner(ctx context.Context, ownerID string) ([]Booking, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// resolveRentalAmount returns the property's current monthly price, or zero
// when the property is gone. A missing property is a defined fallback, not an
// error: the acceptance proceeds commission-free.
func (s *Service) resolveRentalAmount(ctx context.Context, propertyID string) (int64, error) {
	prop, err := s.properties.Get(ctx, propertyID)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return prop.PricePerMonth, nil
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, msg)
}
