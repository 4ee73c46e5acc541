package identity

import (
	"context"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{Phone: "+963912345678", PIN: "1234", Role: RoleLandlord})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != RoleLandlord {
		t.Fatalf("expected landlord role, got %s", user.Role)
	}

	authed, err := svc.Authenticate(ctx, Credentials{Phone: "+963912345678", PIN: "1234"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}

	if _, err := svc.Authenticate(ctx, Credentials{Phone: "+963912345678", PIN: "9999"}); err == nil {
		t.Fatal("expected wrong PIN to fail")
	}
}

func TestRegisterDefaultsToRenter(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	user, err := svc.Register(context.Background(), Credentials{Phone: "+963900000000", PIN: "4321"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != RoleRenter {
		t.Fatalf("expected renter role, got %s", user.Role)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	if _, err := svc.Register(context.Background(), Credentials{Phone: "+963911111111", PIN: "1234", Role: "admin"}); err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
}

func TestRegisterRejectsShortPIN(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	if _, err := svc.Register(context.Background(), Credentials{Phone: "+963922222222", PIN: "12"}); err == nil {
		t.Fatal("expected short PIN to be rejected")
	}
}
