package quota

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Service exposes the quota account store operations: balance reads, atomic
// debits, and the periodic reset. The reset is triggered externally (admin
// endpoint or scheduler); the service keeps no timers of its own.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetAccount returns the full account view for a vehicle number.
func (s *Service) GetAccount(ctx context.Context, vehicleNumber string) (*Account, error) {
	acct, err := s.repo.GetByVehicleNumber(ctx, vehicleNumber)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrVehicleNotFound
	}
	return acct, nil
}

// GetRemaining returns the current remaining balance for a vehicle number.
func (s *Service) GetRemaining(ctx context.Context, vehicleNumber string) (decimal.Decimal, error) {
	acct, err := s.GetAccount(ctx, vehicleNumber)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.Remaining, nil
}

// TryDebit atomically deducts amount from the vehicle's remaining balance.
// Returns the new balance, or ErrInsufficientQuota without mutation when the
// balance is short.
func (s *Service) TryDebit(ctx context.Context, vehicleNumber string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	remaining, ok, err := s.repo.TryDebit(ctx, vehicleNumber, amount)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, ErrInsufficientQuota
	}
	return remaining, nil
}

// ResetAll restores every account to its cached weekly quota.
func (s *Service) ResetAll(ctx context.Context) (int64, error) {
	n, err := s.repo.ResetAll(ctx)
	if err != nil {
		return 0, err
	}
	slog.Info("weekly quotas reset", "accounts", n)
	return n, nil
}
