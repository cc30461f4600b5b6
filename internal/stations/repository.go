package stations

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, st *Station) error
	GetByID(ctx context.Context, id int64) (*Station, error)
	GetByContactNumber(ctx context.Context, contactNumber string) (*Station, error)
	ExistsByContactNumber(ctx context.Context, contactNumber string) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*Station, error)
	SetActive(ctx context.Context, id int64, active bool) (bool, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const stationColumns = `id, name, location, owner_name, contact_number, password_hash, active, created_at`

func (r *postgresRepository) Create(ctx context.Context, st *Station) error {
	query := `
		INSERT INTO fuel_stations (name, location, owner_name, contact_number, password_hash, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		st.Name, st.Location, st.OwnerName, st.ContactNumber, st.PasswordHash, st.Active, st.CreatedAt,
	).Scan(&st.ID)
	if err != nil {
		return fmt.Errorf("inserting fuel station: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Station, error) {
	query := `SELECT ` + stationColumns + ` FROM fuel_stations WHERE id = $1`

	st := &Station{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&st.ID, &st.Name, &st.Location, &st.OwnerName, &st.ContactNumber, &st.PasswordHash, &st.Active, &st.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying fuel station by id: %w", err)
	}
	return st, nil
}

func (r *postgresRepository) GetByContactNumber(ctx context.Context, contactNumber string) (*Station, error) {
	query := `SELECT ` + stationColumns + ` FROM fuel_stations WHERE contact_number = $1`

	st := &Station{}
	err := r.pool.QueryRow(ctx, query, contactNumber).Scan(
		&st.ID, &st.Name, &st.Location, &st.OwnerName, &st.ContactNumber, &st.PasswordHash, &st.Active, &st.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying fuel station by contact number: %w", err)
	}
	return st, nil
}

func (r *postgresRepository) ExistsByContactNumber(ctx context.Context, contactNumber string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM fuel_stations WHERE contact_number = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, contactNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking contact number existence: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM fuel_stations WHERE id = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking fuel station existence: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*Station, error) {
	query := `SELECT ` + stationColumns + ` FROM fuel_stations ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing fuel stations: %w", err)
	}
	defer rows.Close()

	var out []*Station
	for rows.Next() {
		st := &Station{}
		if err := rows.Scan(
			&st.ID, &st.Name, &st.Location, &st.OwnerName, &st.ContactNumber, &st.PasswordHash, &st.Active, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning fuel station: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *postgresRepository) SetActive(ctx context.Context, id int64, active bool) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE fuel_stations SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return false, fmt.Errorf("updating fuel station active flag: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
