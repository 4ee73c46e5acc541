package wallet

import (
	"context"

	"github.com/google/uuid"
)

// Gateway represents a connector to an external payment processor used to
// collect wallet recharges.
type Gateway interface {
	AuthorizeTopUp(ctx context.Context, input TopUpAuthorization) (AuthorizationDecision, error)
}

// TopUpAuthorization encapsulates details needed to authorize a recharge.
type TopUpAuthorization struct {
	OwnerID string
	Amount  int64
	Method  string
}

// AuthorizationDecision captures the response from the payment processor.
type AuthorizationDecision struct {
	Reference string
	Status    string
}

// StaticGateway simulates a successful payment processor integration.
type StaticGateway struct{}

// AuthorizeTopUp approves the recharge with a synthetic reference.
func (StaticGateway) AuthorizeTopUp(_ context.Context, _ TopUpAuthorization) (AuthorizationDecision, error) {
	return AuthorizationDecision{Reference: uuid.NewString(), Status: "approved"}, nil
}
