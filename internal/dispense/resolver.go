package dispense

import (
	"context"
	"strings"

	"github.com/fuelquota-platform/fuelquota/internal/quota"
)

// AccountLookup is the slice of the quota store resolvers need.
type AccountLookup interface {
	GetByVehicleNumber(ctx context.Context, vehicleNumber string) (*quota.Account, error)
	GetByQRIdentifier(ctx context.Context, qrIdentifier string) (*quota.Account, error)
}

// CredentialResolver turns a scanned QR payload into the quota account it
// refers to. Implementations return ErrMalformedCredential when the payload
// carries no usable reference and ErrUnknownCredential when the reference
// matches no vehicle.
type CredentialResolver interface {
	Resolve(ctx context.Context, payload string) (*quota.Account, error)
}

// TextResolver reads the structured QR text issued at registration and
// extracts the "Vehicle Number:" line.
type TextResolver struct {
	accounts AccountLookup
}

func NewTextResolver(accounts AccountLookup) *TextResolver {
	return &TextResolver{accounts: accounts}
}

func (r *TextResolver) Resolve(ctx context.Context, payload string) (*quota.Account, error) {
	vehicleNumber, ok := extractVehicleNumber(payload)
	if !ok {
		return nil, ErrMalformedCredential
	}

	acct, err := r.accounts.GetByVehicleNumber(ctx, vehicleNumber)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrUnknownCredential
	}
	return acct, nil
}

func extractVehicleNumber(payload string) (string, bool) {
	for _, line := range strings.Split(payload, "\n") {
		if rest, found := strings.CutPrefix(line, "Vehicle Number:"); found {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

// TokenResolver treats the payload as an opaque identifier stored against
// the vehicle at QR issuance. Nothing about the vehicle leaks into the QR
// content itself.
type TokenResolver struct {
	accounts AccountLookup
}

func NewTokenResolver(accounts AccountLookup) *TokenResolver {
	return &TokenResolver{accounts: accounts}
}

func (r *TokenResolver) Resolve(ctx context.Context, payload string) (*quota.Account, error) {
	token := strings.TrimSpace(payload)
	if token == "" {
		return nil, ErrMalformedCredential
	}

	acct, err := r.accounts.GetByQRIdentifier(ctx, token)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrUnknownCredential
	}
	return acct, nil
}

// NewResolver selects the resolver strategy by config name. Unknown names
// fall back to the text resolver.
func NewResolver(kind string, accounts AccountLookup) CredentialResolver {
	switch kind {
	case "token":
		return NewTokenResolver(accounts)
	default:
		return NewTextResolver(accounts)
	}
}
