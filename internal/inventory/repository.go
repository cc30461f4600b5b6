package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository persists per-(station, fuel type) stock levels. Every mutation
// is a single statement, so Postgres row locking makes each key atomic while
// unrelated keys proceed independently. Records are created on first touch.
type Repository interface {
	SetAmount(ctx context.Context, stationID int64, fuelType string, amount decimal.Decimal) (*Record, error)
	// Consume decrements the stock if it covers amount; returns false with
	// no mutation when the stock is short.
	Consume(ctx context.Context, stationID int64, fuelType string, amount decimal.Decimal) (*Record, bool, error)
	Restock(ctx context.Context, stationID int64, fuelType string, amount decimal.Decimal) (*Record, error)
	ListByStation(ctx context.Context, stationID int64) ([]Record, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) SetAmount(ctx context.Context, stationID int64, fuelType string, amount decimal.Decimal) (*Record, error) {
	rec := &Record{}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO fuel_inventory (station_id, fuel_type, amount)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (station_id, fuel_type)
		 DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
		 RETURNING id, station_id, fuel_type, amount, updated_at`,
		stationID, fuelType, amount,
	).Scan(&rec.ID, &rec.StationID, &rec.FuelType, &rec.Amount, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("setting inventory amount: %w", err)
	}
	return rec, nil
}

func (r *postgresRepository) Consume(ctx context.Context, stationID int64, fuelType string, amount decimal.Decimal) (*Record, bool, error) {
	// Make sure the key exists so consuming from an untouched station fails
	// with an insufficient-stock result rather than a missing row.
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO fuel_inventory (station_id, fuel_type, amount)
		 VALUES ($1, $2, 0)
		 ON CONFLICT (station_id, fuel_type) DO NOTHING`, stationID, fuelType); err != nil {
		return nil, false, fmt.Errorf("ensuring inventory record: %w", err)
	}

	rec := &Record{}
	err := r.pool.QueryRow(ctx,
		`UPDATE fuel_inventory
		 SET amount = amount - $3, updated_at = NOW()
		 WHERE station_id = $1 AND fuel_type = $2 AND amount >= $3
		 RETURNING id, station_id, fuel_type, amount, updated_at`,
		stationID, fuelType, amount,
	).Scan(&rec.ID, &rec.StationID, &rec.FuelType, &rec.Amount, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("consuming inventory: %w", err)
	}
	return rec, true, nil
}

func (r *postgresRepository) Restock(ctx context.Context, stationID int64, fuelType string, amount decimal.Decimal) (*Record, error) {
	rec := &Record{}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO fuel_inventory (station_id, fuel_type, amount)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (station_id, fuel_type)
		 DO UPDATE SET amount = fuel_inventory.amount + EXCLUDED.amount, updated_at = NOW()
		 RETURNING id, station_id, fuel_type, amount, updated_at`,
		stationID, fuelType, amount,
	).Scan(&rec.ID, &rec.StationID, &rec.FuelType, &rec.Amount, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("restocking inventory: %w", err)
	}
	return rec, nil
}

func (r *postgresRepository) ListByStation(ctx context.Context, stationID int64) ([]Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, station_id, fuel_type, amount, updated_at
		 FROM fuel_inventory
		 WHERE station_id = $1
		 ORDER BY fuel_type`, stationID)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.StationID, &rec.FuelType, &rec.Amount, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning inventory row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
