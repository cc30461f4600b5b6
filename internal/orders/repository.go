package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists fuel orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByStation(ctx context.Context, stationID int64) ([]Order, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const selectColumns = `
	SELECT o.id, o.station_id, o.fuel_type, o.amount, o.order_date, o.created_at,
	       s.name, s.owner_name, s.location, s.contact_number
	FROM fuel_orders o
	JOIN fuel_stations s ON s.id = o.station_id`

func (r *postgresRepository) Create(ctx context.Context, o *Order) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO fuel_orders (station_id, fuel_type, amount, order_date, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		o.StationID, o.FuelType, o.Amount, o.OrderDate, o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	o := &Order{}
	err := r.pool.QueryRow(ctx, selectColumns+` WHERE o.id = $1`, id).Scan(
		&o.ID, &o.StationID, &o.FuelType, &o.Amount, &o.OrderDate, &o.CreatedAt,
		&o.StationName, &o.OwnerName, &o.Location, &o.ContactNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying order: %w", err)
	}
	return o, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Order, error) {
	return r.list(ctx, selectColumns+` ORDER BY o.created_at DESC`)
}

func (r *postgresRepository) ListByStation(ctx context.Context, stationID int64) ([]Order, error) {
	return r.list(ctx, selectColumns+` WHERE o.station_id = $1 ORDER BY o.created_at DESC`, stationID)
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.StationID, &o.FuelType, &o.Amount, &o.OrderDate, &o.CreatedAt,
			&o.StationName, &o.OwnerName, &o.Location, &o.ContactNumber); err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM fuel_orders WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
