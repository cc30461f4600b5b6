package distribution

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fuelquota-platform/fuelquota/internal/events"
	"github.com/fuelquota-platform/fuelquota/internal/inventory"
	"github.com/fuelquota-platform/fuelquota/internal/metrics"
)

// StationDirectory is the slice of the station registry the state machine
// needs.
type StationDirectory interface {
	Exists(ctx context.Context, stationID int64) (bool, error)
	NameByID(ctx context.Context, stationID int64) (string, bool, error)
}

// InventoryCrediter receives the stock credit when a shipment is delivered.
type InventoryCrediter interface {
	Restock(ctx context.Context, stationID int64, fuelType string, amount decimal.Decimal) (*inventory.Record, error)
}

// Service drives the distribution lifecycle: PENDING -> IN_TRANSIT ->
// DELIVERED, with CANCELLED reachable from any non-terminal state. Delivery
// credits the station's inventory ledger.
type Service struct {
	repo      Repository
	stations  StationDirectory
	inventory InventoryCrediter
	publisher *events.Publisher
	now       func() time.Time
}

func NewService(repo Repository, stations StationDirectory, inv InventoryCrediter, publisher *events.Publisher) *Service {
	return &Service{
		repo:      repo,
		stations:  stations,
		inventory: inv,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create schedules a new shipment in PENDING state and publishes a
// distribution-created event. Publishing is best-effort: a broker failure is
// logged and never surfaced to the caller.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Distribution, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	stationName, ok, err := s.stations.NameByID(ctx, in.StationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStationNotFound
	}

	now := s.now()
	d := &Distribution{
		StationID:   in.StationID,
		StationName: stationName,
		FuelType:    in.FuelType,
		Amount:      in.Amount,
		Status:      StatusPending,
		Reference:   NewReference(now),
		Notes:       in.Notes,
		CreatedAt:   now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	metrics.DistributionTransitions.WithLabelValues(string(StatusPending)).Inc()

	if err := s.publisher.PublishDistributionCreated(ctx, events.DistributionCreated{
		DistributionID: d.ID,
		StationID:      d.StationID,
		StationName:    d.StationName,
		FuelType:       d.FuelType,
		Amount:         d.Amount,
		Reference:      d.Reference,
		Timestamp:      d.CreatedAt,
	}); err != nil {
		slog.Warn("publishing distribution-created event failed", "reference", d.Reference, "error", err)
	}

	return d, nil
}

// SetStatus applies a status transition. Reaching DELIVERED credits the
// station's inventory and then stamps the completion time: completed_at
// doubles as the credit marker, so a DELIVERED row without it still owes its
// credit and a retried DELIVERED resumes the restock instead of no-opping.
func (s *Service) SetStatus(ctx context.Context, id int64, to Status) (*Distribution, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}

	from := d.Status
	creditOwed := to == StatusDelivered && d.CompletedAt == nil
	if from == to && !creditOwed {
		return d, nil
	}

	if from != to {
		if err := d.ApplyTransition(to); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, d); err != nil {
			return nil, err
		}
		metrics.DistributionTransitions.WithLabelValues(string(to)).Inc()
	}

	if creditOwed {
		if _, err := s.inventory.Restock(ctx, d.StationID, d.FuelType, d.Amount); err != nil {
			return nil, fmt.Errorf("crediting station inventory for %s: %w", d.Reference, err)
		}
		t := s.now()
		d.CompletedAt = &t
		if err := s.repo.Update(ctx, d); err != nil {
			return nil, err
		}
		slog.Info("distribution delivered",
			"reference", d.Reference,
			"station_id", d.StationID,
			"fuel_type", d.FuelType,
			"amount", d.Amount)
	}

	return d, nil
}

// Get returns one distribution by id.
func (s *Service) Get(ctx context.Context, id int64) (*Distribution, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

// ListForStation returns a station's distributions, newest first, optionally
// filtered by status.
func (s *Service) ListForStation(ctx context.Context, stationID int64, params ListParams) ([]Distribution, int64, error) {
	ok, err := s.stations.Exists(ctx, stationID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, ErrStationNotFound
	}

	offset := (params.Page - 1) * params.PageSize
	return s.repo.ListByStation(ctx, stationID, params.Status, params.PageSize, offset)
}

// StatsByFuelType sums delivered amounts per fuel type.
func (s *Service) StatsByFuelType(ctx context.Context) (map[string]decimal.Decimal, error) {
	return s.repo.StatsByFuelType(ctx)
}
