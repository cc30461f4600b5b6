package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository is the persistence boundary of the quota account store. TryDebit
// must behave as an atomic per-vehicle compare-and-set: concurrent debits
// against the same vehicle serialize, debits on different vehicles do not
// block each other.
type Repository interface {
	GetByVehicleNumber(ctx context.Context, vehicleNumber string) (*Account, error)
	GetByQRIdentifier(ctx context.Context, qrIdentifier string) (*Account, error)
	// TryDebit decrements the remaining balance if it covers amount.
	// Returns the new balance and true on success; false with no mutation
	// when the balance is insufficient.
	TryDebit(ctx context.Context, vehicleNumber string, amount decimal.Decimal) (decimal.Decimal, bool, error)
	// ResetAll restores every account's balance to its cached weekly quota
	// and returns the number of accounts touched.
	ResetAll(ctx context.Context) (int64, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const accountQuery = `
	SELECT v.id, v.vehicle_number, v.chassis_number, v.fuel_type,
	       vt.name, v.weekly_quota, v.weekly_available, v.updated_at,
	       o.id, o.nic, o.first_name, o.last_name, o.email, o.phone
	FROM vehicles v
	JOIN vehicle_types vt ON vt.id = v.vehicle_type_id
	JOIN owners o ON o.id = v.owner_id`

func (r *postgresRepository) GetByVehicleNumber(ctx context.Context, vehicleNumber string) (*Account, error) {
	return r.getOne(ctx, accountQuery+` WHERE v.vehicle_number = $1`, vehicleNumber)
}

func (r *postgresRepository) GetByQRIdentifier(ctx context.Context, qrIdentifier string) (*Account, error) {
	return r.getOne(ctx, accountQuery+` WHERE v.qr_identifier = $1`, qrIdentifier)
}

func (r *postgresRepository) getOne(ctx context.Context, query, key string) (*Account, error) {
	a := &Account{}
	err := r.pool.QueryRow(ctx, query, key).Scan(
		&a.VehicleID, &a.VehicleNumber, &a.ChassisNumber, &a.FuelType,
		&a.VehicleTypeName, &a.WeeklyQuota, &a.Remaining, &a.UpdatedAt,
		&a.Owner.ID, &a.Owner.NIC, &a.Owner.FirstName, &a.Owner.LastName,
		&a.Owner.Email, &a.Owner.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying quota account: %w", err)
	}
	return a, nil
}

// TryDebit relies on a single conditional UPDATE: the balance check and the
// decrement happen inside one statement, so Postgres row locking serializes
// concurrent debits for the same vehicle and the balance can never go
// negative.
func (r *postgresRepository) TryDebit(ctx context.Context, vehicleNumber string, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	var remaining decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`UPDATE vehicles
		 SET weekly_available = weekly_available - $2,
		     updated_at = NOW()
		 WHERE vehicle_number = $1 AND weekly_available >= $2
		 RETURNING weekly_available`, vehicleNumber, amount,
	).Scan(&remaining)
	if err == nil {
		return remaining, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, false, fmt.Errorf("debiting quota: %w", err)
	}

	// No row updated: either the vehicle is unknown or the balance was short.
	var current decimal.Decimal
	err = r.pool.QueryRow(ctx,
		`SELECT weekly_available FROM vehicles WHERE vehicle_number = $1`, vehicleNumber,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, false, ErrVehicleNotFound
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("checking quota balance: %w", err)
	}
	return current, false, nil
}

func (r *postgresRepository) ResetAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vehicles SET weekly_available = weekly_quota, updated_at = NOW()`)
	if err != nil {
		return 0, fmt.Errorf("resetting weekly quotas: %w", err)
	}
	return tag.RowsAffected(), nil
}
