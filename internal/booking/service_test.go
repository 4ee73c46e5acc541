package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ALAAWF2/arabi-rent-home/internal/identity"
	"github.com/ALAAWF2/arabi-rent-home/internal/ledger"
	"github.com/ALAAWF2/arabi-rent-home/internal/notification"
	"github.com/ALAAWF2/arabi-rent-home/internal/property"
	"github.com/ALAAWF2/arabi-rent-home/internal/wallet"
)

type recordingNotifier struct {
	messages []notification.Message
}

func (n *recordingNotifier) Send(_ context.Context, msg notification.Message) error {
	n.messages = append(n.messages, msg)
	return nil
}

type fixture struct {
	svc        *Service
	properties *property.Service
	wallets    *wallet.Service
	led        ledger.Ledger
	notifier   *recordingNotifier
	landlord   string
	renter     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	led := ledger.NewInMemory(ledger.DefaultPolicy())
	notifier := &recordingNotifier{}
	wallets := wallet.NewService(led, nil, nil, 50)
	properties := property.NewService(property.NewMemoryRepository(), wallets)
	svc := NewService(NewMemoryRepository(), properties, wallets, ledger.DefaultPolicy(), notifier, nil)

	landlord := uuid.NewString()
	if err := led.EnsureAccount(context.Background(), landlord); err != nil {
		t.Fatalf("ensure account: %v", err)
	}
	return &fixture{
		svc:        svc,
		properties: properties,
		wallets:    wallets,
		led:        led,
		notifier:   notifier,
		landlord:   landlord,
		renter:     uuid.NewString(),
	}
}

func (f *fixture) listProperty(t *testing.T, price int64) property.Property {
	t.Helper()
	p, err := f.properties.Create(context.Background(), property.CreateInput{
		OwnerID:       f.landlord,
		Role:          identity.RoleLandlord,
		Title:         "two bedroom flat",
		City:          "Damascus",
		PricePerMonth: price,
	})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	return p
}

func (f *fixture) requestBooking(t *testing.T, propertyID string) Booking {
	t.Helper()
	start := time.Now().AddDate(0, 1, 0)
	b, err := f.svc.Request(context.Background(), RequestInput{
		RenterID:   f.renter,
		PropertyID: propertyID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 6, 0),
	})
	if err != nil {
		t.Fatalf("request booking: %v", err)
	}
	return b
}

func (f *fixture) accept(b Booking) (AcceptResult, error) {
	return f.svc.Accept(context.Background(), AcceptInput{
		BookingID: b.ID,
		OwnerID:   f.landlord,
		Role:      identity.RoleLandlord,
		Confirm:   true,
	})
}

func TestAcceptDeductsCommissionThenMarksAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.listProperty(t, 1_200)
	b := f.requestBooking(t, p.ID)

	result, err := f.accept(b)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if result.Booking.Status != StatusAccepted {
		t.Fatalf("expected accepted, got %s", result.Booking.Status)
	}
	if result.Commission != 30 || result.Balance != -30 {
		t.Fatalf("expected commission 30 balance -30, got %d/%d", result.Commission, result.Balance)
	}
	if result.Status != ledger.StatusActive {
		t.Fatalf("expected active after small commission, got %s", result.Status)
	}

	txs, err := f.led.Transactions(ctx, f.landlord, 10)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != ledger.TypeCommission {
		t.Fatalf("expected one commission entry, got %+v", txs)
	}
	if txs[0].BookingID != b.ID || txs[0].PropertyID != p.ID {
		t.Fatalf("commission entry missing linkage: %+v", txs[0])
	}

	if len(f.notifier.messages) == 0 || f.notifier.messages[len(f.notifier.messages)-1].Kind != notification.KindBookingAccepted {
		t.Fatalf("expected renter acceptance notification, got %+v", f.notifier.messages)
	}
}

func TestAcceptRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.listProperty(t, 1_200)
	b := f.requestBooking(t, p.ID)

	_, err := f.svc.Accept(ctx, AcceptInput{BookingID: b.ID, OwnerID: f.landlord, Role: identity.RoleLandlord})
	if err != ErrConfirmationRequired {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}

	got, _ := f.svc.repo.Get(ctx, b.ID)
	if got.Status != StatusPending {
		t.Fatalf("unconfirmed accept must not mutate, got %s", got.Status)
	}
	if txs, _ := f.led.Transactions(ctx, f.landlord, 10); len(txs) != 0 {
		t.Fatalf("unconfirmed accept must not charge, got %+v", txs)
	}
}

func TestAcceptBlockedWhileSuspended(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.listProperty(t, 1_200)
	b := f.requestBooking(t, p.ID)

	// Suspend the landlord with a large unrelated charge.
	if res, err := f.wallets.DeductCommission(ctx, f.landlord, ledger.CommissionPosting{RentalAmount: 400_000}); err != nil || res.Status != ledger.StatusSuspended {
		t.Fatalf("expected suspension, got status=%v err=%v", res.Status, err)
	}
	before, _ := f.led.Transactions(ctx, f.landlord, 10)

	if _, err := f.accept(b); err != wallet.ErrAccountSuspended {
		t.Fatalf("expected ErrAccountSuspended, got %v", err)
	}

	got, _ := f.svc.repo.Get(ctx, b.ID)
	if got.Status != StatusPending {
		t.Fatalf("guarded accept must leave booking pending, got %s", got.Status)
	}
	after, _ := f.led.Transactions(ctx, f.landlord, 10)
	if len(after) != len(before) {
		t.Fatalf("guarded accept must not charge, %d -> %d entries", len(before), len(after))
	}
}

func TestAcceptMissingBookingIsHardError(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Accept(context.Background(), AcceptInput{
		BookingID: uuid.NewString(),
		OwnerID:   f.landlord,
		Role:      identity.RoleLandlord,
		Confirm:   true,
	})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAcceptDeletedPropertyChargesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.listProperty(t, 9_999)
	b := f.requestBooking(t, p.ID)

	if err := f.properties.Delete(ctx, p.ID, f.landlord); err != nil {
		t.Fatalf("delete property: %v", err)
	}

	result, err := f.accept(b)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if result.Booking.Status != StatusAccepted {
		t.Fatalf("expected acceptance to proceed, got %s", result.Booking.Status)
	}
	if result.Commission != 0 || result.Balance != 0 {
		t.Fatalf("expected zero commission for deleted property, got %d/%d", result.Commission, result.Balance)
	}
}

func TestAcceptUsesCurrentPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.listProperty(t, 1_200)
	b := f.requestBooking(t, p.ID)

	// Price changed between request and acceptance; the new price wins.
	if _, err := f.properties.Update(ctx, property.UpdateInput{
		ID:            p.ID,
		OwnerID:       f.landlord,
		Title:         p.Title,
		City:          p.City,
		PricePerMonth: 4_000,
		Available:     true,
	}); err != nil {
		t.Fatalf("update property: %v", err)
	}

	result, err := f.accept(b)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if result.Commission != 100 {
		t.Fatalf("expected commission on current price, got %d", result.Commission)
	}
}

func TestAcceptRejectsForeignOwnerAndFinalized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.listProperty(t, 1_200)
	b := f.requestBooking(t, p.ID)

	if _, err := f.svc.Accept(ctx, AcceptInput{BookingID: b.ID, OwnerID: uuid.NewString(), Role: identity.RoleLandlord, Confirm: true}); err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if _, err := f.accept(b); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.accept(b); err != ErrFinalized {
		t.Fatalf("expected ErrFinalized on second accept, got %v", err)
	}
}

func TestRejectNeverTouchesLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.listProperty(t, 1_000_000)
	b := f.requestBooking(t, p.ID)

	rejected, err := f.svc.Reject(ctx, b.ID, f.landlord)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}

	if txs, _ := f.led.Transactions(ctx, f.landlord, 10); len(txs) != 0 {
		t.Fatalf("reject must not append transactions, got %+v", txs)
	}
	acct, _ := f.led.Account(ctx, f.landlord)
	if acct.Balance != 0 || acct.Status != ledger.StatusActive {
		t.Fatalf("reject must not touch the account, got %+v", acct)
	}
	if len(f.notifier.messages) != 1 || f.notifier.messages[0].Kind != notification.KindBookingRejected {
		t.Fatalf("expected rejection notification, got %+v", f.notifier.messages)
	}

	if _, err := f.svc.Reject(ctx, b.ID, f.landlord); err != ErrFinalized {
		t.Fatalf("expected ErrFinalized on second reject, got %v", err)
	}
}

func TestPreviewIsReadOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.listProperty(t, 4_000)
	b := f.requestBooking(t, p.ID)

	ledger.SeedBalance(f.led, f.landlord, -40)

	preview, err := f.svc.Preview(ctx, b.ID, f.landlord)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.RentalAmount != 4_000 || preview.Commission != 100 {
		t.Fatalf("unexpected preview amounts: %+v", preview)
	}
	if preview.CurrentBalance != -40 || preview.ProjectedBalance != -140 {
		t.Fatalf("unexpected preview balances: %+v", preview)
	}
	if !preview.SuspensionWarning {
		t.Fatal("expected suspension warning when projected balance crosses the threshold")
	}

	// Preview must not write anything.
	if txs, _ := f.led.Transactions(ctx, f.landlord, 10); len(txs) != 0 {
		t.Fatalf("preview wrote transactions: %+v", txs)
	}
	got, _ := f.svc.repo.Get(ctx, b.ID)
	if got.Status != StatusPending {
		t.Fatalf("preview changed booking status to %s", got.Status)
	}
}

func TestRequestValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.listProperty(t, 1_200)

	start := time.Now().AddDate(0, 1, 0)
	if _, err := f.svc.Request(ctx, RequestInput{RenterID: f.landlord, PropertyID: p.ID, StartDate: start, EndDate: start.AddDate(0, 1, 0)}); err == nil {
		t.Fatal("expected booking own property to fail")
	}
	if _, err := f.svc.Request(ctx, RequestInput{RenterID: f.renter, PropertyID: p.ID, StartDate: start, EndDate: start}); err == nil {
		t.Fatal("expected empty date range to fail")
	}
	if _, err := f.svc.Request(ctx, RequestInput{RenterID: f.renter, PropertyID: uuid.NewString(), StartDate: start, EndDate: start.AddDate(0, 1, 0)}); err == nil {
		t.Fatal("expected unknown property to fail")
	}
}
