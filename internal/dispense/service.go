package dispense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fuelquota-platform/fuelquota/internal/events"
	"github.com/fuelquota-platform/fuelquota/internal/metrics"
	"github.com/fuelquota-platform/fuelquota/internal/notify"
	"github.com/fuelquota-platform/fuelquota/internal/quota"
)

// QuotaDebiter is the slice of the quota service the engine needs: the
// atomic debit.
type QuotaDebiter interface {
	TryDebit(ctx context.Context, vehicleNumber string, amount decimal.Decimal) (decimal.Decimal, error)
}

// Service is the dispense engine: resolve the scanned credential, debit the
// vehicle's weekly balance atomically, record the transaction, and notify
// the owner. The debit is the linchpin; everything after it is best-effort.
type Service struct {
	resolver     CredentialResolver
	quota        QuotaDebiter
	transactions TransactionRepository
	idem         *IdempotencyCache
	sms          notify.Sender
	publisher    *events.Publisher
	now          func() time.Time
}

func NewService(
	resolver CredentialResolver,
	quotaSvc QuotaDebiter,
	transactions TransactionRepository,
	idem *IdempotencyCache,
	sms notify.Sender,
	publisher *events.Publisher,
) *Service {
	return &Service{
		resolver:     resolver,
		quota:        quotaSvc,
		transactions: transactions,
		idem:         idem,
		sms:          sms,
		publisher:    publisher,
		now:          time.Now,
	}
}

// Dispense runs one pump transaction. When idempotencyKey names an already
// completed dispense within the replay window, the stored receipt is
// returned unchanged and no second debit happens.
func (s *Service) Dispense(ctx context.Context, stationID int64, req *Request, idempotencyKey string) (*Receipt, error) {
	if !req.Amount.IsPositive() {
		metrics.DispenseTotal.WithLabelValues("invalid_amount").Inc()
		return nil, quota.ErrInvalidAmount
	}

	acct, err := s.resolver.Resolve(ctx, req.Credential)
	if err != nil {
		if errors.Is(err, ErrUnknownCredential) || errors.Is(err, ErrMalformedCredential) {
			metrics.DispenseTotal.WithLabelValues("unknown_credential").Inc()
		}
		return nil, err
	}

	if cached, err := s.idem.Get(ctx, idempotencyKey); err != nil {
		slog.Warn("idempotency lookup failed, proceeding", "key", idempotencyKey, "error", err)
	} else if cached != nil {
		metrics.DispenseTotal.WithLabelValues("replayed").Inc()
		slog.Info("dispense replayed from idempotency cache",
			"key", idempotencyKey, "vehicle_number", cached.VehicleNumber)
		return cached, nil
	}

	remaining, err := s.quota.TryDebit(ctx, acct.VehicleNumber, req.Amount)
	if err != nil {
		if errors.Is(err, quota.ErrInsufficientQuota) {
			metrics.DispenseTotal.WithLabelValues("insufficient_quota").Inc()
		}
		return nil, err
	}

	rec := &Receipt{
		VehicleID:       acct.VehicleID,
		VehicleNumber:   acct.VehicleNumber,
		ChassisNumber:   acct.ChassisNumber,
		FuelType:        acct.FuelType,
		VehicleTypeName: acct.VehicleTypeName,
		Amount:          req.Amount,
		Remaining:       remaining,
		WeeklyQuota:     acct.WeeklyQuota,
		Owner:           acct.Owner,
		DispensedAt:     s.now(),
	}

	tx := &Transaction{
		VehicleID:      acct.VehicleID,
		StationID:      stationID,
		FuelType:       acct.FuelType,
		Amount:         req.Amount,
		RemainingAfter: remaining,
		CreatedAt:      rec.DispensedAt,
	}
	if err := s.transactions.Record(ctx, tx); err != nil {
		// The debit already landed; losing the audit row must not undo it.
		slog.Error("recording fuel transaction failed",
			"vehicle_number", acct.VehicleNumber, "error", err)
	}

	if err := s.idem.Put(ctx, idempotencyKey, rec); err != nil {
		slog.Warn("storing idempotency record failed", "key", idempotencyKey, "error", err)
	}

	s.notifyOwner(ctx, rec)

	if err := s.publisher.PublishDispenseCompleted(ctx, events.DispenseCompleted{
		VehicleNumber: rec.VehicleNumber,
		FuelType:      rec.FuelType,
		Amount:        rec.Amount,
		Remaining:     rec.Remaining,
		Timestamp:     rec.DispensedAt,
	}); err != nil {
		slog.Warn("publishing dispense-completed event failed",
			"vehicle_number", rec.VehicleNumber, "error", err)
	}

	metrics.DispenseTotal.WithLabelValues("ok").Inc()
	litres, _ := rec.Amount.Float64()
	metrics.DispensedLitres.WithLabelValues(rec.FuelType).Add(litres)

	slog.Info("fuel dispensed",
		"vehicle_number", rec.VehicleNumber,
		"station_id", stationID,
		"fuel_type", rec.FuelType,
		"amount", rec.Amount,
		"remaining", rec.Remaining)
	return rec, nil
}

// History returns the most recent dispenses for a vehicle.
func (s *Service) History(ctx context.Context, vehicleID int64, limit int) ([]Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.transactions.ListByVehicle(ctx, vehicleID, limit)
}

func (s *Service) notifyOwner(ctx context.Context, rec *Receipt) {
	if s.sms == nil || rec.Owner.Phone == "" {
		return
	}
	msg := fmt.Sprintf("Fuel dispensed: %s L of %s for vehicle %s. Remaining weekly quota: %s L.",
		rec.Amount.StringFixed(2), rec.FuelType, rec.VehicleNumber, rec.Remaining.StringFixed(2))
	if err := s.sms.Send(ctx, rec.Owner.Phone, msg); err != nil {
		slog.Warn("dispense sms failed", "vehicle_number", rec.VehicleNumber, "error", err)
	}
}
