package property

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ALAAWF2/arabi-rent-home/internal/identity"
	"github.com/ALAAWF2/arabi-rent-home/internal/ledger"
	"github.com/ALAAWF2/arabi-rent-home/internal/wallet"
)

func newPropertyService(t *testing.T) (*Service, ledger.Ledger, string) {
	t.Helper()
	led := ledger.NewInMemory(ledger.DefaultPolicy())
	wallets := wallet.NewService(led, nil, nil, 50)
	svc := NewService(NewMemoryRepository(), wallets)

	landlord := uuid.NewString()
	if err := led.EnsureAccount(context.Background(), landlord); err != nil {
		t.Fatalf("ensure account: %v", err)
	}
	return svc, led, landlord
}

func TestCreateRequiresLandlordRole(t *testing.T) {
	svc, _, _ := newPropertyService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		OwnerID:       uuid.NewString(),
		Role:          identity.RoleRenter,
		Title:         "studio",
		PricePerMonth: 900,
	})
	if err == nil {
		t.Fatal("expected renters to be barred from publishing listings")
	}
}

func TestCreateBlockedWhileSuspended(t *testing.T) {
	svc, led, landlord := newPropertyService(t)
	ctx := context.Background()

	if _, err := led.DeductCommission(ctx, landlord, ledger.CommissionPosting{RentalAmount: 400_000}); err != nil {
		t.Fatalf("deduct: %v", err)
	}

	_, err := svc.Create(ctx, CreateInput{
		OwnerID:       landlord,
		Role:          identity.RoleLandlord,
		Title:         "studio",
		PricePerMonth: 900,
	})
	if !errors.Is(err, wallet.ErrAccountSuspended) {
		t.Fatalf("expected ErrAccountSuspended, got %v", err)
	}
}

func TestCreateReactivatedLandlordMayPublishAgain(t *testing.T) {
	svc, led, landlord := newPropertyService(t)
	ctx := context.Background()

	if _, err := led.DeductCommission(ctx, landlord, ledger.CommissionPosting{RentalAmount: 400_000}); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if _, err := led.Recharge(ctx, landlord, 20_000, "top up"); err != nil {
		t.Fatalf("recharge: %v", err)
	}

	p, err := svc.Create(ctx, CreateInput{
		OwnerID:       landlord,
		Role:          identity.RoleLandlord,
		Title:         "studio",
		City:          "Aleppo",
		PricePerMonth: 900,
	})
	if err != nil {
		t.Fatalf("create after reactivation: %v", err)
	}
	if !p.Available {
		t.Fatal("new listings start available")
	}
}

func TestUpdateAndDeleteEnforceOwnership(t *testing.T) {
	svc, _, landlord := newPropertyService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{
		OwnerID:       landlord,
		Role:          identity.RoleLandlord,
		Title:         "studio",
		PricePerMonth: 900,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stranger := uuid.NewString()
	if _, err := svc.Update(ctx, UpdateInput{ID: p.ID, OwnerID: stranger, Title: "hijacked", PricePerMonth: 1}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner on update, got %v", err)
	}
	if err := svc.Delete(ctx, p.ID, stranger); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner on delete, got %v", err)
	}

	updated, err := svc.Update(ctx, UpdateInput{ID: p.ID, OwnerID: landlord, Title: "studio", City: "Homs", PricePerMonth: 1_100, Available: true})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.PricePerMonth != 1_100 || updated.City != "Homs" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := svc.Delete(ctx, p.ID, landlord); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListAvailableHidesUnavailable(t *testing.T) {
	svc, _, landlord := newPropertyService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{OwnerID: landlord, Role: identity.RoleLandlord, Title: "flat a", PricePerMonth: 800})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := svc.Create(ctx, CreateInput{OwnerID: landlord, Role: identity.RoleLandlord, Title: "flat b", PricePerMonth: 950})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(ctx, UpdateInput{ID: b.ID, OwnerID: landlord, Title: b.Title, PricePerMonth: b.PricePerMonth, Available: false}); err != nil {
		t.Fatalf("update: %v", err)
	}

	open, err := svc.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(open) != 1 || open[0].ID != a.ID {
		t.Fatalf("expected only the available listing, got %+v", open)
	}

	mine, err := svc.ListByOwner(ctx, landlord)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected both listings for the owner, got %d", len(mine))
	}
}
