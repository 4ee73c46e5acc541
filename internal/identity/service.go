package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service manages identity lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a user with the requested role and stores a hashed PIN.
// Role defaults to renter when empty.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	if len(creds.PIN) < 4 {
		return User{}, errors.New("PIN must be at least 4 digits")
	}

	role := creds.Role
	switch role {
	case "":
		role = RoleRenter
	case RoleLandlord, RoleRenter:
	default:
		return User{}, errors.New("role must be landlord or renter")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.PIN), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:        uuid.New().String(),
		Phone:     creds.Phone,
		Role:      role,
		PINHash:   hash,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Authenticate verifies the phone/PIN pair.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	user, err := s.repo.FindByPhone(ctx, creds.Phone)
	if err != nil {
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PINHash, []byte(creds.PIN)); err != nil {
		return User{}, errors.New("invalid PIN")
	}

	return user, nil
}
