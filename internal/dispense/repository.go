package dispense

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository is the audit trail of completed dispenses.
type TransactionRepository interface {
	Record(ctx context.Context, tx *Transaction) error
	ListByVehicle(ctx context.Context, vehicleID int64, limit int) ([]Transaction, error)
}

type postgresTransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &postgresTransactionRepository{pool: pool}
}

func (r *postgresTransactionRepository) Record(ctx context.Context, tx *Transaction) error {
	query := `
		INSERT INTO fuel_transactions (vehicle_id, station_id, fuel_type, amount, remaining_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		tx.VehicleID, tx.StationID, tx.FuelType, tx.Amount, tx.RemainingAfter, tx.CreatedAt,
	).Scan(&tx.ID)
	if err != nil {
		return fmt.Errorf("inserting fuel transaction: %w", err)
	}
	return nil
}

func (r *postgresTransactionRepository) ListByVehicle(ctx context.Context, vehicleID int64, limit int) ([]Transaction, error) {
	query := `
		SELECT id, vehicle_id, station_id, fuel_type, amount, remaining_after, created_at
		FROM fuel_transactions
		WHERE vehicle_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, vehicleID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing fuel transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(
			&tx.ID, &tx.VehicleID, &tx.StationID, &tx.FuelType, &tx.Amount, &tx.RemainingAfter, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning fuel transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}
