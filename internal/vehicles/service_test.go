package vehicles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelquota-platform/fuelquota/internal/owners"
)

type fakeRepository struct {
	vehicles map[string]*Vehicle
	types    map[int64]*VehicleType
	nextID   int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		vehicles: make(map[string]*Vehicle),
		types: map[int64]*VehicleType{
			1: {ID: 1, Name: "CAR", FuelType: "PETROL", WeeklyQuota: decimal.NewFromInt(20)},
			2: {ID: 2, Name: "MOTORCYCLE", FuelType: "PETROL", WeeklyQuota: decimal.NewFromInt(5)},
		},
		nextID: 100,
	}
}

func (f *fakeRepository) Create(_ context.Context, v *Vehicle) error {
	f.nextID++
	v.ID = f.nextID
	f.vehicles[v.VehicleNumber] = v
	return nil
}

func (f *fakeRepository) GetByVehicleNumber(_ context.Context, vehicleNumber string) (*Vehicle, error) {
	return f.vehicles[vehicleNumber], nil
}

func (f *fakeRepository) ListByOwner(_ context.Context, ownerID int64) ([]*Vehicle, error) {
	var out []*Vehicle
	for _, v := range f.vehicles {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeRepository) ExistsByVehicleNumber(_ context.Context, vehicleNumber string) (bool, error) {
	_, ok := f.vehicles[vehicleNumber]
	return ok, nil
}

func (f *fakeRepository) ExistsByChassisNumber(_ context.Context, chassisNumber string) (bool, error) {
	for _, v := range f.vehicles {
		if v.ChassisNumber == chassisNumber {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) CreateType(_ context.Context, vt *VehicleType) error {
	f.nextID++
	vt.ID = f.nextID
	f.types[vt.ID] = vt
	return nil
}

func (f *fakeRepository) GetTypeByID(_ context.Context, id int64) (*VehicleType, error) {
	return f.types[id], nil
}

func (f *fakeRepository) GetTypeByName(_ context.Context, name string) (*VehicleType, error) {
	for _, vt := range f.types {
		if vt.Name == name {
			return vt, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) ListTypes(_ context.Context) ([]*VehicleType, error) {
	var out []*VehicleType
	for _, vt := range f.types {
		out = append(out, vt)
	}
	return out, nil
}

func (f *fakeRepository) UpdateType(_ context.Context, vt *VehicleType) (bool, error) {
	if _, ok := f.types[vt.ID]; !ok {
		return false, nil
	}
	f.types[vt.ID] = vt
	return true, nil
}

func (f *fakeRepository) DeleteType(_ context.Context, id int64) (bool, error) {
	if _, ok := f.types[id]; !ok {
		return false, nil
	}
	delete(f.types, id)
	return true, nil
}

func (f *fakeRepository) CountVehiclesOfType(_ context.Context, typeID int64) (int64, error) {
	var n int64
	for _, v := range f.vehicles {
		if v.VehicleTypeID == typeID {
			n++
		}
	}
	return n, nil
}

type fakeOwnerDir struct {
	byNIC map[string]*owners.Owner
}

func (f *fakeOwnerDir) GetByNIC(_ context.Context, nic string) (*owners.Owner, error) {
	return f.byNIC[nic], nil
}

type fakeRegistry struct {
	valid bool
	err   error
}

func (f *fakeRegistry) ValidateVehicle(_ context.Context, _, _ string) (bool, error) {
	return f.valid, f.err
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	dir := &fakeOwnerDir{byNIC: map[string]*owners.Owner{
		"981234567V": {ID: 7, NIC: "981234567V", FirstName: "Anna", LastName: "Perera", Email: "anna@example.com"},
	}}
	return NewService(repo, dir, &fakeRegistry{valid: true}), repo
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		VehicleNumber: "BGQ-6375",
		ChassisNumber: "CH-778899",
		FuelType:      "PETROL",
		OwnerNIC:      "981234567V",
		VehicleTypeID: 1,
	}
}

func TestRegisterSeedsQuotaAndQR(t *testing.T) {
	svc, _ := newTestService()

	v, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.NotZero(t, v.ID)
	assert.Equal(t, "CAR", v.VehicleTypeName)
	assert.True(t, v.WeeklyQuota.Equal(decimal.NewFromInt(20)))
	assert.True(t, v.WeeklyAvailable.Equal(decimal.NewFromInt(20)))
	assert.True(t, v.Verified)

	_, err = uuid.Parse(v.QRIdentifier)
	assert.NoError(t, err)

	assert.Equal(t,
		"Vehicle Number: BGQ-6375\nVehicle Type: CAR\nOwner NIC: 981234567V\nWeekly Quota: 20.00 L",
		v.QRPayload)
}

func TestRegisterResolvesTypeByName(t *testing.T) {
	svc, _ := newTestService()

	req := registerRequest()
	req.VehicleTypeID = 0
	req.VehicleTypeName = "MOTORCYCLE"

	v, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "MOTORCYCLE", v.VehicleTypeName)
	assert.True(t, v.WeeklyAvailable.Equal(decimal.NewFromInt(5)))
}

func TestRegisterRequiresType(t *testing.T) {
	svc, _ := newTestService()

	req := registerRequest()
	req.VehicleTypeID = 0
	req.VehicleTypeName = ""

	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrTypeRequired)
}

func TestRegisterUnknownType(t *testing.T) {
	svc, _ := newTestService()

	req := registerRequest()
	req.VehicleTypeID = 999

	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestRegisterDuplicateVehicleNumber(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.ChassisNumber = "CH-000001"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrDuplicateNumber)
}

func TestRegisterDuplicateChassisNumber(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.VehicleNumber = "KX-1111"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrDuplicateChassis)
}

func TestRegisterUnknownOwner(t *testing.T) {
	svc, _ := newTestService()

	req := registerRequest()
	req.OwnerNIC = "000000000V"

	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}

func TestRegisterRegistryRejection(t *testing.T) {
	repo := newFakeRepository()
	dir := &fakeOwnerDir{byNIC: map[string]*owners.Owner{
		"981234567V": {ID: 7, NIC: "981234567V"},
	}}
	svc := NewService(repo, dir, &fakeRegistry{valid: false})

	_, err := svc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, ErrRegistryRejected)
	assert.Empty(t, repo.vehicles)
}

func TestDeleteTypeInUse(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	err = svc.DeleteType(ctx, 1)
	assert.ErrorIs(t, err, ErrTypeInUse)
	assert.Contains(t, repo.types, int64(1))
}

func TestDeleteTypeUnreferenced(t *testing.T) {
	svc, repo := newTestService()

	err := svc.DeleteType(context.Background(), 2)
	require.NoError(t, err)
	assert.NotContains(t, repo.types, int64(2))
}

func TestCreateTypeRequiresPositiveQuota(t *testing.T) {
	svc, _ := newTestService()

	for _, quota := range []decimal.Decimal{decimal.NewFromInt(-1), decimal.Zero} {
		_, err := svc.CreateType(context.Background(), &TypeInput{
			Name:        "TRUCK",
			FuelType:    "DIESEL",
			WeeklyQuota: quota,
		})
		assert.ErrorIs(t, err, ErrInvalidQuota, "quota %s", quota)
	}
}

func TestUpdateTypeRequiresPositiveQuota(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.UpdateType(context.Background(), 1, &TypeInput{
		Name:        "CAR",
		FuelType:    "PETROL",
		WeeklyQuota: decimal.Zero,
	})
	assert.ErrorIs(t, err, ErrInvalidQuota)
}

func TestUpdateTypeDoesNotTouchExistingVehicles(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	v, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.UpdateType(ctx, 1, &TypeInput{
		Name:        "CAR",
		FuelType:    "PETROL",
		WeeklyQuota: decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	got, err := svc.GetByVehicleNumber(ctx, v.VehicleNumber)
	require.NoError(t, err)
	assert.True(t, got.WeeklyQuota.Equal(decimal.NewFromInt(20)))
}
