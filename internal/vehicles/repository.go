package vehicles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByVehicleNumber(ctx context.Context, vehicleNumber string) (*Vehicle, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*Vehicle, error)
	ExistsByVehicleNumber(ctx context.Context, vehicleNumber string) (bool, error)
	ExistsByChassisNumber(ctx context.Context, chassisNumber string) (bool, error)

	CreateType(ctx context.Context, vt *VehicleType) error
	GetTypeByID(ctx context.Context, id int64) (*VehicleType, error)
	GetTypeByName(ctx context.Context, name string) (*VehicleType, error)
	ListTypes(ctx context.Context) ([]*VehicleType, error)
	UpdateType(ctx context.Context, vt *VehicleType) (bool, error)
	DeleteType(ctx context.Context, id int64) (bool, error)
	CountVehiclesOfType(ctx context.Context, typeID int64) (int64, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const vehicleColumns = `
	v.id, v.vehicle_number, v.chassis_number, v.vehicle_type_id, vt.name,
	v.fuel_type, v.owner_id, v.qr_identifier, v.qr_payload,
	v.weekly_quota, v.weekly_available, v.verified, v.created_at, v.updated_at`

const vehicleQuery = `SELECT` + vehicleColumns + `
	FROM vehicles v
	JOIN vehicle_types vt ON vt.id = v.vehicle_type_id`

func (r *postgresRepository) Create(ctx context.Context, v *Vehicle) error {
	query := `
		INSERT INTO vehicles (vehicle_number, chassis_number, vehicle_type_id, fuel_type,
			owner_id, qr_identifier, qr_payload, weekly_quota, weekly_available, verified,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		v.VehicleNumber, v.ChassisNumber, v.VehicleTypeID, v.FuelType,
		v.OwnerID, v.QRIdentifier, v.QRPayload, v.WeeklyQuota, v.WeeklyAvailable, v.Verified,
		v.CreatedAt, v.UpdatedAt,
	).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("inserting vehicle: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByVehicleNumber(ctx context.Context, vehicleNumber string) (*Vehicle, error) {
	v := &Vehicle{}
	err := r.pool.QueryRow(ctx, vehicleQuery+` WHERE v.vehicle_number = $1`, vehicleNumber).Scan(
		&v.ID, &v.VehicleNumber, &v.ChassisNumber, &v.VehicleTypeID, &v.VehicleTypeName,
		&v.FuelType, &v.OwnerID, &v.QRIdentifier, &v.QRPayload,
		&v.WeeklyQuota, &v.WeeklyAvailable, &v.Verified, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying vehicle: %w", err)
	}
	return v, nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*Vehicle, error) {
	rows, err := r.pool.Query(ctx, vehicleQuery+` WHERE v.owner_id = $1 ORDER BY v.created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing owner vehicles: %w", err)
	}
	defer rows.Close()

	var out []*Vehicle
	for rows.Next() {
		v := &Vehicle{}
		if err := rows.Scan(
			&v.ID, &v.VehicleNumber, &v.ChassisNumber, &v.VehicleTypeID, &v.VehicleTypeName,
			&v.FuelType, &v.OwnerID, &v.QRIdentifier, &v.QRPayload,
			&v.WeeklyQuota, &v.WeeklyAvailable, &v.Verified, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning vehicle: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *postgresRepository) ExistsByVehicleNumber(ctx context.Context, vehicleNumber string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM vehicles WHERE vehicle_number = $1)`, vehicleNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking vehicle number existence: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsByChassisNumber(ctx context.Context, chassisNumber string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM vehicles WHERE chassis_number = $1)`, chassisNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking chassis number existence: %w", err)
	}
	return exists, nil
}

const typeColumns = `id, name, COALESCE(description, ''), fuel_type, weekly_quota, created_at, updated_at`

func (r *postgresRepository) CreateType(ctx context.Context, vt *VehicleType) error {
	query := `
		INSERT INTO vehicle_types (name, description, fuel_type, weekly_quota, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		vt.Name, vt.Description, vt.FuelType, vt.WeeklyQuota, vt.CreatedAt, vt.UpdatedAt,
	).Scan(&vt.ID)
	if err != nil {
		return fmt.Errorf("inserting vehicle type: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetTypeByID(ctx context.Context, id int64) (*VehicleType, error) {
	return r.getType(ctx, `SELECT `+typeColumns+` FROM vehicle_types WHERE id = $1`, id)
}

func (r *postgresRepository) GetTypeByName(ctx context.Context, name string) (*VehicleType, error) {
	return r.getType(ctx, `SELECT `+typeColumns+` FROM vehicle_types WHERE UPPER(name) = UPPER($1)`, name)
}

func (r *postgresRepository) getType(ctx context.Context, query string, arg any) (*VehicleType, error) {
	vt := &VehicleType{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&vt.ID, &vt.Name, &vt.Description, &vt.FuelType, &vt.WeeklyQuota, &vt.CreatedAt, &vt.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying vehicle type: %w", err)
	}
	return vt, nil
}

func (r *postgresRepository) ListTypes(ctx context.Context) ([]*VehicleType, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+typeColumns+` FROM vehicle_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing vehicle types: %w", err)
	}
	defer rows.Close()

	var out []*VehicleType
	for rows.Next() {
		vt := &VehicleType{}
		if err := rows.Scan(
			&vt.ID, &vt.Name, &vt.Description, &vt.FuelType, &vt.WeeklyQuota, &vt.CreatedAt, &vt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning vehicle type: %w", err)
		}
		out = append(out, vt)
	}
	return out, rows.Err()
}

func (r *postgresRepository) UpdateType(ctx context.Context, vt *VehicleType) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vehicle_types
		 SET name = $2, description = $3, fuel_type = $4, weekly_quota = $5, updated_at = $6
		 WHERE id = $1`,
		vt.ID, vt.Name, vt.Description, vt.FuelType, vt.WeeklyQuota, vt.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("updating vehicle type: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) DeleteType(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vehicle_types WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting vehicle type: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) CountVehiclesOfType(ctx context.Context, typeID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM vehicles WHERE vehicle_type_id = $1`, typeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting vehicles of type: %w", err)
	}
	return count, nil
}
