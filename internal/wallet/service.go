package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/ALAAWF2/arabi-rent-home/internal/identity"
	"github.com/ALAAWF2/arabi-rent-home/internal/ledger"
	"github.com/ALAAWF2/arabi-rent-home/internal/notification"
)

// Service exposes landlord wallet operations backed by the ledger. All balance
// mutations go through here so the suspension invariants stay in one place.
type Service struct {
	ledger       ledger.Ledger
	gateway      Gateway
	notifier     notification.Notifier
	historyLimit int
}

// NewService builds a wallet service instance. A nil gateway falls back to the
// static stub.
func NewService(ledgerBackend ledger.Ledger, gateway Gateway, notifier notification.Notifier, historyLimit int) *Service {
	if gateway == nil {
		gateway = StaticGateway{}
	}
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &Service{ledger: ledgerBackend, gateway: gateway, notifier: notifier, historyLimit: historyLimit}
}

// RechargeInput captures data required to top up a wallet.
type RechargeInput struct {
	OwnerID     string
	Amount      int64
	Description string
	Method      string
}

// RechargeResult reports the wallet state right after the recharge, so the
// caller never needs a follow-up read to display the new balance.
type RechargeResult struct {
	TransactionID    string
	Balance          int64
	Status           string
	GatewayReference string
	CompletedAt      time.Time
}

// Recharge authorizes the payment and credits the wallet. Zero or negative
// amounts are rejected before anything is written.
func (s *Service) Recharge(ctx context.Context, input RechargeInput) (RechargeResult, error) {
	if input.Amount <= 0 {
		return RechargeResult{}, ledger.ErrInvalidAmount
	}

	before, err := s.ledger.Account(ctx, input.OwnerID)
	if err != nil {
		return RechargeResult{}, err
	}

	decision, err := s.gateway.AuthorizeTopUp(ctx, TopUpAuthorization{
		OwnerID: input.OwnerID,
		Amount:  input.Amount,
		Method:  input.Method,
	})
	if err != nil {
		return RechargeResult{}, fmt.Errorf("authorize recharge: %w", err)
	}

	description := input.Description
	if description == "" {
		description = "wallet recharge"
	}

	res, err := s.ledger.Recharge(ctx, input.OwnerID, input.Amount, description)
	if err != nil {
		return RechargeResult{}, err
	}

	if before.Status == ledger.StatusSuspended && res.Status == ledger.StatusActive {
		s.notify(ctx, notification.Message{
			Kind:        notification.KindAccountReactivated,
			Destination: input.OwnerID,
			Body:        fmt.Sprintf("Your account is active again, balance %d", res.Balance),
		})
	}

	return RechargeResult{
		TransactionID:    res.TransactionID,
		Balance:          res.Balance,
		Status:           res.Status,
		GatewayReference: decision.Reference,
		CompletedAt:      time.Now().UTC(),
	}, nil
}

// DeductCommission charges the landlord for an accepted booking and notifies
// them if the charge suspended the account.
func (s *Service) DeductCommission(ctx context.Context, ownerID string, posting ledger.CommissionPosting) (ledger.PostingResult, error) {
	before, err := s.ledger.Account(ctx, ownerID)
	if err != nil {
		return ledger.PostingResult{}, err
	}

	res, err := s.ledger.DeductCommission(ctx, ownerID, posting)
	if err != nil {
		return ledger.PostingResult{}, err
	}

	if before.Status == ledger.StatusActive && res.Status == ledger.StatusSuspended {
		s.notify(ctx, notification.Message{
			Kind:        notification.KindAccountSuspended,
			Destination: ownerID,
			Body:        fmt.Sprintf("Your account was suspended, balance %d", res.Balance),
		})
	}

	return res, nil
}

// Overview re-reads the authoritative account record.
func (s *Service) Overview(ctx context.Context, ownerID string) (ledger.Account, error) {
	return s.ledger.Account(ctx, ownerID)
}

// Transactions returns the landlord's ledger entries newest-first, bounded to
// the configured history limit.
func (s *Service) Transactions(ctx context.Context, ownerID string) ([]ledger.Transaction, error) {
	return s.ledger.Transactions(ctx, ownerID, s.historyLimit)
}

// StatusActive re-reads the account and reports whether the caller may act on
// booking acceptances and listings. The gate applies only to landlords; other
// roles always pass.
func (s *Service) StatusActive(ctx context.Context, ownerID, role string) (bool, error) {
	if role != identity.RoleLandlord {
		return true, nil
	}
	acct, err := s.ledger.Account(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return acct.Active(), nil
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, msg)
}
