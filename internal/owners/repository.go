package owners

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, o *Owner) error
	Delete(ctx context.Context, id int64) error
	GetByEmail(ctx context.Context, email string) (*Owner, error)
	GetByNIC(ctx context.Context, nic string) (*Owner, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNIC(ctx context.Context, nic string) (bool, error)
	SetEmailVerified(ctx context.Context, email string) error
	SetQRIdentifier(ctx context.Context, id int64, identifier string) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const ownerColumns = `id, nic, first_name, last_name, email, phone, address,
	COALESCE(qr_identifier, ''), email_verified, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, o *Owner) error {
	query := `
		INSERT INTO owners (nic, first_name, last_name, email, phone, address, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		o.NIC, o.FirstName, o.LastName, o.Email, o.Phone, o.Address, o.EmailVerified, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("inserting owner: %w", err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM owners WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting owner: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*Owner, error) {
	return r.getOne(ctx, `SELECT `+ownerColumns+` FROM owners WHERE email = $1`, email)
}

func (r *postgresRepository) GetByNIC(ctx context.Context, nic string) (*Owner, error) {
	return r.getOne(ctx, `SELECT `+ownerColumns+` FROM owners WHERE nic = $1`, nic)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg any) (*Owner, error) {
	o := &Owner{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&o.ID, &o.NIC, &o.FirstName, &o.LastName, &o.Email, &o.Phone, &o.Address,
		&o.QRIdentifier, &o.EmailVerified, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying owner: %w", err)
	}
	return o, nil
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM owners WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking owner email existence: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsByNIC(ctx context.Context, nic string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM owners WHERE nic = $1)`, nic).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking owner NIC existence: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) SetEmailVerified(ctx context.Context, email string) error {
	query := `UPDATE owners SET email_verified = TRUE, updated_at = NOW() WHERE email = $1`
	if _, err := r.pool.Exec(ctx, query, email); err != nil {
		return fmt.Errorf("marking owner email verified: %w", err)
	}
	return nil
}

func (r *postgresRepository) SetQRIdentifier(ctx context.Context, id int64, identifier string) error {
	query := `UPDATE owners SET qr_identifier = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, query, id, identifier); err != nil {
		return fmt.Errorf("setting owner qr identifier: %w", err)
	}
	return nil
}
