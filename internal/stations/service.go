package stations

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/fuelquota-platform/fuelquota/internal/auth"
)

type Service struct {
	repo Repository
	jwt  *auth.JWTManager
}

func NewService(repo Repository, jwt *auth.JWTManager) *Service {
	return &Service{repo: repo, jwt: jwt}
}

// Register creates a station in the inactive state; an admin activates it
// before it can log in.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Station, error) {
	exists, err := s.repo.ExistsByContactNumber(ctx, req.ContactNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateContact
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing station password: %w", err)
	}

	st := &Station{
		Name:          req.Name,
		Location:      req.Location,
		OwnerName:     req.OwnerName,
		ContactNumber: req.ContactNumber,
		PasswordHash:  hash,
		Active:        false,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}

	slog.Info("fuel station registered", "station_id", st.ID, "name", st.Name)
	return st, nil
}

// Login authenticates by contact number and password and issues a token pair.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Station, *auth.TokenPair, error) {
	st, err := s.repo.GetByContactNumber(ctx, req.ContactNumber)
	if err != nil {
		return nil, nil, err
	}
	if st == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := auth.ComparePassword(st.PasswordHash, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !st.Active {
		return nil, nil, ErrInactive
	}

	pair, _, err := s.jwt.GenerateTokenPair(strconv.FormatInt(st.ID, 10), st.ContactNumber, auth.RoleStation)
	if err != nil {
		return nil, nil, fmt.Errorf("issuing station tokens: %w", err)
	}
	return st, pair, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Station, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrNotFound
	}
	return st, nil
}

func (s *Service) List(ctx context.Context) ([]*Station, error) {
	return s.repo.List(ctx)
}

// SetActive flips the activation flag; registration leaves stations inactive
// until an admin approves them.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	ok, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	slog.Info("fuel station activation changed", "station_id", id, "active", active)
	return nil
}

// Exists satisfies the station directory dependency of the distribution and
// inventory services.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// NameByID returns the station's display name, with ok=false when the
// station does not exist.
func (s *Service) NameByID(ctx context.Context, id int64) (string, bool, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", false, err
	}
	if st == nil {
		return "", false, nil
	}
	return st.Name, true, nil
}
