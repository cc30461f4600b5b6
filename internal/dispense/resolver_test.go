package dispense

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelquota-platform/fuelquota/internal/quota"
)

type fakeLookup struct {
	byNumber map[string]*quota.Account
	byToken  map[string]*quota.Account
}

func (f *fakeLookup) GetByVehicleNumber(_ context.Context, vehicleNumber string) (*quota.Account, error) {
	return f.byNumber[vehicleNumber], nil
}

func (f *fakeLookup) GetByQRIdentifier(_ context.Context, token string) (*quota.Account, error) {
	return f.byToken[token], nil
}

func testLookup() *fakeLookup {
	acct := &quota.Account{
		VehicleID:     1,
		VehicleNumber: "BGQ-6375",
		FuelType:      "PETROL",
		WeeklyQuota:   decimal.NewFromInt(20),
		Remaining:     decimal.NewFromInt(20),
	}
	return &fakeLookup{
		byNumber: map[string]*quota.Account{"BGQ-6375": acct},
		byToken:  map[string]*quota.Account{"550e8400-e29b-41d4-a716-446655440000": acct},
	}
}

func TestTextResolverExtractsVehicleNumber(t *testing.T) {
	r := NewTextResolver(testLookup())

	payload := "Vehicle Number: BGQ-6375\nVehicle Type: CAR\nOwner NIC: 981234567V\nWeekly Quota: 20.00 L"
	acct, err := r.Resolve(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "BGQ-6375", acct.VehicleNumber)
}

func TestTextResolverTrimsWhitespace(t *testing.T) {
	r := NewTextResolver(testLookup())

	acct, err := r.Resolve(context.Background(), "Vehicle Number:   BGQ-6375  ")
	require.NoError(t, err)
	assert.Equal(t, "BGQ-6375", acct.VehicleNumber)
}

func TestTextResolverMissingLine(t *testing.T) {
	r := NewTextResolver(testLookup())

	_, err := r.Resolve(context.Background(), "Owner NIC: 981234567V")
	assert.ErrorIs(t, err, ErrMalformedCredential)
}

func TestTextResolverUnknownVehicle(t *testing.T) {
	r := NewTextResolver(testLookup())

	_, err := r.Resolve(context.Background(), "Vehicle Number: ZZZ-0000")
	assert.ErrorIs(t, err, ErrUnknownCredential)
}

func TestTokenResolverLooksUpIdentifier(t *testing.T) {
	r := NewTokenResolver(testLookup())

	acct, err := r.Resolve(context.Background(), "550e8400-e29b-41d4-a716-446655440000")
	require.NoError(t, err)
	assert.Equal(t, "BGQ-6375", acct.VehicleNumber)
}

func TestTokenResolverEmptyPayload(t *testing.T) {
	r := NewTokenResolver(testLookup())

	_, err := r.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrMalformedCredential)
}

func TestTokenResolverUnknownToken(t *testing.T) {
	r := NewTokenResolver(testLookup())

	_, err := r.Resolve(context.Background(), "not-a-known-token")
	assert.ErrorIs(t, err, ErrUnknownCredential)
}

func TestNewResolverSelection(t *testing.T) {
	lookup := testLookup()

	assert.IsType(t, &TokenResolver{}, NewResolver("token", lookup))
	assert.IsType(t, &TextResolver{}, NewResolver("text", lookup))
	// Unknown names fall back to text.
	assert.IsType(t, &TextResolver{}, NewResolver("", lookup))
}
