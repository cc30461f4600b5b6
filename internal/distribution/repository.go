package distribution

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository persists fuel distributions.
type Repository interface {
	Create(ctx context.Context, d *Distribution) error
	GetByID(ctx context.Context, id int64) (*Distribution, error)
	Update(ctx context.Context, d *Distribution) error
	ListByStation(ctx context.Context, stationID int64, status Status, limit, offset int) ([]Distribution, int64, error)
	// StatsByFuelType sums delivered amounts grouped by fuel type.
	StatsByFuelType(ctx context.Context) (map[string]decimal.Decimal, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const selectColumns = `
	SELECT d.id, d.station_id, s.name, d.fuel_type, d.amount, d.status,
	       d.reference, d.notes, d.created_at, d.completed_at
	FROM fuel_distributions d
	JOIN fuel_stations s ON s.id = d.station_id`

func (r *postgresRepository) Create(ctx context.Context, d *Distribution) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO fuel_distributions (station_id, fuel_type, amount, status, reference, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		d.StationID, d.FuelType, d.Amount, d.Status, d.Reference, d.Notes, d.CreatedAt,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("inserting distribution: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Distribution, error) {
	d := &Distribution{}
	err := r.pool.QueryRow(ctx, selectColumns+` WHERE d.id = $1`, id).Scan(
		&d.ID, &d.StationID, &d.StationName, &d.FuelType, &d.Amount, &d.Status,
		&d.Reference, &d.Notes, &d.CreatedAt, &d.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying distribution: %w", err)
	}
	return d, nil
}

func (r *postgresRepository) Update(ctx context.Context, d *Distribution) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE fuel_distributions
		 SET status = $2, completed_at = $3
		 WHERE id = $1`,
		d.ID, d.Status, d.CompletedAt)
	if err != nil {
		return fmt.Errorf("updating distribution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepository) ListByStation(ctx context.Context, stationID int64, status Status, limit, offset int) ([]Distribution, int64, error) {
	where := ` WHERE d.station_id = $1`
	args := []any{stationID}
	if status != "" {
		where += ` AND d.status = $2`
		args = append(args, status)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM fuel_distributions d` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting distributions: %w", err)
	}

	query := selectColumns + where +
		fmt.Sprintf(` ORDER BY d.created_at DESC LIMIT %d OFFSET %d`, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing distributions: %w", err)
	}
	defer rows.Close()

	var out []Distribution
	for rows.Next() {
		var d Distribution
		if err := rows.Scan(
			&d.ID, &d.StationID, &d.StationName, &d.FuelType, &d.Amount, &d.Status,
			&d.Reference, &d.Notes, &d.CreatedAt, &d.CompletedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning distribution row: %w", err)
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *postgresRepository) StatsByFuelType(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT fuel_type, COALESCE(SUM(amount), 0)
		 FROM fuel_distributions
		 WHERE status = $1
		 GROUP BY fuel_type`, StatusDelivered)
	if err != nil {
		return nil, fmt.Errorf("aggregating distribution stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]decimal.Decimal)
	for rows.Next() {
		var fuelType string
		var total decimal.Decimal
		if err := rows.Scan(&fuelType, &total); err != nil {
			return nil, fmt.Errorf("scanning stats row: %w", err)
		}
		stats[fuelType] = total
	}
	return stats, rows.Err()
}
