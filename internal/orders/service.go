package orders

import (
	"context"
	"log/slog"
	"time"
)

// StationDirectory is the slice of the station registry order placement
// needs.
type StationDirectory interface {
	Exists(ctx context.Context, stationID int64) (bool, error)
}

// Service manages station fuel orders: create, list, delete. Orders carry no
// state machine; they are the demand ledger the depot works from when
// scheduling distributions.
type Service struct {
	repo     Repository
	stations StationDirectory
	now      func() time.Time
}

func NewService(repo Repository, stations StationDirectory) *Service {
	return &Service{
		repo:     repo,
		stations: stations,
		now:      time.Now,
	}
}

// Create places an order for the station. The amount must be positive and the
// station must exist; the order date defaults to today.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	ok, err := s.stations.Exists(ctx, in.StationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStationNotFound
	}

	now := s.now()
	orderDate := now
	if in.OrderDate != "" {
		orderDate, err = time.Parse("2006-01-02", in.OrderDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
	}

	o := &Order{
		StationID: in.StationID,
		FuelType:  in.FuelType,
		Amount:    in.Amount,
		OrderDate: orderDate,
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	// Re-read for the joined station details.
	created, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return o, nil
	}

	slog.Info("fuel order placed",
		"order_id", created.ID,
		"station_id", created.StationID,
		"fuel_type", created.FuelType,
		"amount", created.Amount)
	return created, nil
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// ListForStation returns one station's orders, newest first.
func (s *Service) ListForStation(ctx context.Context, stationID int64) ([]Order, error) {
	ok, err := s.stations.Exists(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStationNotFound
	}
	return s.repo.ListByStation(ctx, stationID)
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	slog.Info("fuel order deleted", "order_id", id)
	return nil
}
