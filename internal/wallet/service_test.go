package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/ALAAWF2/arabi-rent-home/internal/identity"
	"github.com/ALAAWF2/arabi-rent-home/internal/ledger"
	"github.com/ALAAWF2/arabi-rent-home/internal/notification"
)

type recordingNotifier struct {
	messages []notification.Message
}

func (n *recordingNotifier) Send(_ context.Context, msg notification.Message) error {
	n.messages = append(n.messages, msg)
	return nil
}

type recordingGateway struct {
	last TopUpAuthorization
}

func (g *recordingGateway) AuthorizeTopUp(_ context.Context, input TopUpAuthorization) (AuthorizationDecision, error) {
	g.last = input
	return AuthorizationDecision{Reference: "ref-123", Status: "approved"}, nil
}

func newTestService(t *testing.T) (*Service, ledger.Ledger, *recordingNotifier, *recordingGateway, string) {
	t.Helper()
	led := ledger.NewInMemory(ledger.DefaultPolicy())
	notifier := &recordingNotifier{}
	gateway := &recordingGateway{}
	svc := NewService(led, gateway, notifier, 50)

	owner := uuid.NewString()
	if err := led.EnsureAccount(context.Background(), owner); err != nil {
		t.Fatalf("ensure account: %v", err)
	}
	return svc, led, notifier, gateway, owner
}

func TestRechargeRejectsInvalidAmount(t *testing.T) {
	svc, led, _, _, owner := newTestService(t)
	ctx := context.Background()

	for _, amount := range []int64{0, -200} {
		if _, err := svc.Recharge(ctx, RechargeInput{OwnerID: owner, Amount: amount}); err != ledger.ErrInvalidAmount {
			t.Fatalf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	txs, err := led.Transactions(ctx, owner, 10)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("rejected recharge must not write, got %d entries", len(txs))
	}
}

func TestRechargeCarriesFreshBalance(t *testing.T) {
	svc, _, _, gateway, owner := newTestService(t)
	ctx := context.Background()

	result, err := svc.Recharge(ctx, RechargeInput{OwnerID: owner, Amount: 5_000, Method: "card"})
	if err != nil {
		t.Fatalf("recharge: %v", err)
	}
	if result.Balance != 5_000 || result.Status != ledger.StatusActive {
		t.Fatalf("expected balance 5000 active, got balance=%d status=%s", result.Balance, result.Status)
	}
	if result.GatewayReference != "ref-123" {
		t.Fatalf("expected gateway reference, got %q", result.GatewayReference)
	}
	if gateway.last.Amount != 5_000 || gateway.last.OwnerID != owner {
		t.Fatalf("gateway saw wrong authorization: %+v", gateway.last)
	}
}

func TestStatusActiveSkipsNonLandlords(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	// Renters have no wallet account at all; the gate never applies to them.
	active, err := svc.StatusActive(context.Background(), uuid.NewString(), identity.RoleRenter)
	if err != nil {
		t.Fatalf("status check: %v", err)
	}
	if !active {
		t.Fatal("expected non-landlord callers to always pass the gate")
	}
}

func TestStatusActiveReReadsStore(t *testing.T) {
	svc, _, _, _, owner := newTestService(t)
	ctx := context.Background()

	active, err := svc.StatusActive(ctx, owner, identity.RoleLandlord)
	if err != nil {
		t.Fatalf("status check: %v", err)
	}
	if !active {
		t.Fatal("expected fresh account to be active")
	}

	// Drive the balance to the suspension threshold and re-check.
	if _, err := svc.DeductCommission(ctx, owner, ledger.CommissionPosting{RentalAmount: 4_000}); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	active, err = svc.StatusActive(ctx, owner, identity.RoleLandlord)
	if err != nil {
		t.Fatalf("status check: %v", err)
	}
	if active {
		t.Fatal("expected suspended account to fail the gate")
	}
}

func TestSuspensionAndReactivationNotify(t *testing.T) {
	svc, _, notifier, _, owner := newTestService(t)
	ctx := context.Background()

	if _, err := svc.DeductCommission(ctx, owner, ledger.CommissionPosting{RentalAmount: 4_000}); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if len(notifier.messages) != 1 || notifier.messages[0].Kind != notification.KindAccountSuspended {
		t.Fatalf("expected suspension notification, got %+v", notifier.messages)
	}

	if _, err := svc.Recharge(ctx, RechargeInput{OwnerID: owner, Amount: 101}); err != nil {
		t.Fatalf("recharge: %v", err)
	}
	if len(notifier.messages) != 2 || notifier.messages[1].Kind != notification.KindAccountReactivated {
		t.Fatalf("expected reactivation notification, got %+v", notifier.messages)
	}

	// A further deduction while already suspended must not re-notify.
	notifier.messages = nil
	if res, err := svc.DeductCommission(ctx, owner, ledger.CommissionPosting{RentalAmount: 400_000}); err != nil || res.Status != ledger.StatusSuspended {
		t.Fatalf("expected suspension, got status=%v err=%v", res.Status, err)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected one suspension notification, got %+v", notifier.messages)
	}
	if _, err := svc.DeductCommission(ctx, owner, ledger.CommissionPosting{RentalAmount: 400}); err != nil {
		t.Fatalf("deduct while suspended: %v", err)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("suspended account must not re-notify, got %+v", notifier.messages)
	}
}
