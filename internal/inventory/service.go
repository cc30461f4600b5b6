package inventory

import (
	"context"

	"github.com/shopspring/decimal"
)

// StationDirectory is the slice of the station registry the ledger needs:
// existence checks before touching a station's stock.
type StationDirectory interface {
	Exists(ctx context.Context, stationID int64) (bool, error)
}

// Service is the inventory ledger: absolute set, consumption with
// negative-balance protection, and restocking, keyed by (station, fuel type).
type Service struct {
	repo     Repository
	stations StationDirectory
}

func NewService(repo Repository, stations StationDirectory) *Service {
	return &Service{repo: repo, stations: stations}
}

// SetAmount overwrites the absolute stock level for the key.
func (s *Service) SetAmount(ctx context.Context, stationID int64, fuelType string, amount decimal.Decimal) (*Record, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if err := s.checkStation(ctx, stationID); err != nil {
		return nil, err
	}
	return s.repo.SetAmount(ctx, stationID, fuelType, amount)
}

// Consume deducts amount from the key's stock. Fails with
// ErrInsufficientStock and no mutation when the stock is short.
func (s *Service) Consume(ctx context.Context, stationID int64, fuelType string, amount decimal.Decimal) (*Record, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if err := s.checkStation(ctx, stationID); err != nil {
		return nil, err
	}
	rec, ok, err := s.repo.Consume(ctx, stationID, fuelType, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientStock
	}
	return rec, nil
}

// Restock adds amount to the key's stock, creating the record on first touch.
func (s *Service) Restock(ctx context.Context, stationID int64, fuelType string, amount decimal.Decimal) (*Record, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if err := s.checkStation(ctx, stationID); err != nil {
		return nil, err
	}
	return s.repo.Restock(ctx, stationID, fuelType, amount)
}

// ListByStation returns all stock records held by a station.
func (s *Service) ListByStation(ctx context.Context, stationID int64) ([]Record, error) {
	if err := s.checkStation(ctx, stationID); err != nil {
		return nil, err
	}
	return s.repo.ListByStation(ctx, stationID)
}

func (s *Service) checkStation(ctx context.Context, stationID int64) error {
	ok, err := s.stations.Exists(ctx, stationID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStationNotFound
	}
	return nil
}
