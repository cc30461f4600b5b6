package vehicles

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fuelquota-platform/fuelquota/internal/owners"
)

// OwnerDirectory is the slice of the owner registry vehicle registration
// needs.
type OwnerDirectory interface {
	GetByNIC(ctx context.Context, nic string) (*owners.Owner, error)
}

// RegistryValidator cross-checks registrations against the external
// traffic-department registry.
type RegistryValidator interface {
	ValidateVehicle(ctx context.Context, vehicleNumber, chassisNumber string) (bool, error)
}

type Service struct {
	repo     Repository
	owners   OwnerDirectory
	registry RegistryValidator
	now      func() time.Time
}

func NewService(repo Repository, ownerDir OwnerDirectory, registry RegistryValidator) *Service {
	return &Service{
		repo:     repo,
		owners:   ownerDir,
		registry: registry,
		now:      time.Now,
	}
}

// Register creates a vehicle: uniqueness checks, owner lookup by NIC, type
// resolution, registry cross-check, then the quota account seeded with the
// type's weekly quota and a freshly issued QR payload.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Vehicle, error) {
	if exists, err := s.repo.ExistsByVehicleNumber(ctx, req.VehicleNumber); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateNumber
	}
	if exists, err := s.repo.ExistsByChassisNumber(ctx, req.ChassisNumber); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateChassis
	}

	ref, ok := req.TypeRef()
	if !ok {
		return nil, ErrTypeRequired
	}
	vt, err := s.resolveType(ctx, ref)
	if err != nil {
		return nil, err
	}

	owner, err := s.owners.GetByNIC(ctx, req.OwnerNIC)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrOwnerNotFound
	}

	valid, err := s.registry.ValidateVehicle(ctx, req.VehicleNumber, req.ChassisNumber)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrRegistryRejected
	}

	now := s.now()
	identifier := uuid.New().String()
	v := &Vehicle{
		VehicleNumber:   req.VehicleNumber,
		ChassisNumber:   req.ChassisNumber,
		VehicleTypeID:   vt.ID,
		VehicleTypeName: vt.Name,
		FuelType:        req.FuelType,
		OwnerID:         owner.ID,
		QRIdentifier:    identifier,
		QRPayload:       qrPayload(req.VehicleNumber, vt.Name, owner.NIC, vt.WeeklyQuota.StringFixed(2)),
		WeeklyQuota:     vt.WeeklyQuota,
		WeeklyAvailable: vt.WeeklyQuota,
		Verified:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	slog.Info("vehicle registered",
		"vehicle_id", v.ID,
		"vehicle_number", v.VehicleNumber,
		"type", vt.Name,
		"weekly_quota", vt.WeeklyQuota)
	return v, nil
}

func (s *Service) GetByVehicleNumber(ctx context.Context, vehicleNumber string) (*Vehicle, error) {
	v, err := s.repo.GetByVehicleNumber(ctx, vehicleNumber)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]*Vehicle, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) resolveType(ctx context.Context, ref TypeRef) (*VehicleType, error) {
	var vt *VehicleType
	var err error
	if ref.ID != 0 {
		vt, err = s.repo.GetTypeByID(ctx, ref.ID)
	} else {
		vt, err = s.repo.GetTypeByName(ctx, ref.Name)
	}
	if err != nil {
		return nil, err
	}
	if vt == nil {
		return nil, ErrTypeNotFound
	}
	return vt, nil
}

// CreateType adds a vehicle type. The weekly quota must be strictly
// positive: a type with a zero allowance could never dispense.
func (s *Service) CreateType(ctx context.Context, in *TypeInput) (*VehicleType, error) {
	if !in.WeeklyQuota.IsPositive() {
		return nil, ErrInvalidQuota
	}

	now := s.now()
	vt := &VehicleType{
		Name:        in.Name,
		Description: in.Description,
		FuelType:    in.FuelType,
		WeeklyQuota: in.WeeklyQuota,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateType(ctx, vt); err != nil {
		return nil, err
	}
	return vt, nil
}

func (s *Service) GetType(ctx context.Context, id int64) (*VehicleType, error) {
	vt, err := s.repo.GetTypeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vt == nil {
		return nil, ErrTypeNotFound
	}
	return vt, nil
}

func (s *Service) ListTypes(ctx context.Context) ([]*VehicleType, error) {
	return s.repo.ListTypes(ctx)
}

// UpdateType changes a type's attributes. Existing vehicles keep the quota
// cached at registration; only the next weekly reset or new registrations see
// the new value.
func (s *Service) UpdateType(ctx context.Context, id int64, in *TypeInput) (*VehicleType, error) {
	if !in.WeeklyQuota.IsPositive() {
		return nil, ErrInvalidQuota
	}

	vt, err := s.repo.GetTypeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vt == nil {
		return nil, ErrTypeNotFound
	}

	vt.Name = in.Name
	vt.Description = in.Description
	vt.FuelType = in.FuelType
	vt.WeeklyQuota = in.WeeklyQuota
	vt.UpdatedAt = s.now()

	ok, err := s.repo.UpdateType(ctx, vt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTypeNotFound
	}
	return vt, nil
}

// DeleteType removes a type. Rejected while any vehicle references it, so
// registered vehicles never lose their quota class.
func (s *Service) DeleteType(ctx context.Context, id int64) error {
	count, err := s.repo.CountVehiclesOfType(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrTypeInUse
	}

	ok, err := s.repo.DeleteType(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTypeNotFound
	}
	return nil
}

func qrPayload(vehicleNumber, typeName, ownerNIC, weeklyQuota string) string {
	return fmt.Sprintf("Vehicle Number: %s\nVehicle Type: %s\nOwner NIC: %s\nWeekly Quota: %s L",
		vehicleNumber, typeName, ownerNIC, weeklyQuota)
}
