package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	byID   map[int64]*Order
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: make(map[int64]*Order)}
}

func (f *fakeRepository) Create(_ context.Context, o *Order) error {
	f.nextID++
	o.ID = f.nextID
	cp := *o
	cp.StationName = "Colombo Central"
	f.byID[o.ID] = &cp
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id int64) (*Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeRepository) List(_ context.Context) ([]Order, error) {
	var out []Order
	for _, o := range f.byID {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeRepository) ListByStation(_ context.Context, stationID int64) ([]Order, error) {
	var out []Order
	for _, o := range f.byID {
		if o.StationID == stationID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeRepository) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

type fakeDirectory struct {
	ids map[int64]bool
}

func (f *fakeDirectory) Exists(_ context.Context, stationID int64) (bool, error) {
	return f.ids[stationID], nil
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	svc := NewService(repo, &fakeDirectory{ids: map[int64]bool{1: true}})
	svc.now = func() time.Time {
		return time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

func TestCreateDefaultsOrderDateToToday(t *testing.T) {
	svc, _ := newTestService()

	o, err := svc.Create(context.Background(), CreateInput{
		StationID: 1,
		FuelType:  "PETROL",
		Amount:    decimal.NewFromInt(2000),
	})
	require.NoError(t, err)

	assert.NotZero(t, o.ID)
	assert.Equal(t, "Colombo Central", o.StationName)
	assert.Equal(t, time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC), o.OrderDate)
}

func TestCreateWithExplicitOrderDate(t *testing.T) {
	svc, _ := newTestService()

	o, err := svc.Create(context.Background(), CreateInput{
		StationID: 1,
		FuelType:  "DIESEL",
		Amount:    decimal.NewFromInt(500),
		OrderDate: "2026-09-01",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), o.OrderDate)
}

func TestCreateRejectsBadDate(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{
		StationID: 1,
		FuelType:  "DIESEL",
		Amount:    decimal.NewFromInt(500),
		OrderDate: "01/09/2026",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	svc, repo := newTestService()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := svc.Create(context.Background(), CreateInput{
			StationID: 1,
			FuelType:  "PETROL",
			Amount:    amount,
		})
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %s", amount)
	}
	assert.Empty(t, repo.byID)
}

func TestCreateRejectsUnknownStation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{
		StationID: 42,
		FuelType:  "PETROL",
		Amount:    decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestListForStationFilters(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{StationID: 1, FuelType: "PETROL", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	repo.byID[99] = &Order{ID: 99, StationID: 2, FuelType: "DIESEL", Amount: decimal.NewFromInt(50)}

	list, err := svc.ListForStation(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].StationID)

	_, err = svc.ListForStation(ctx, 7)
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	o, err := svc.Create(ctx, CreateInput{StationID: 1, FuelType: "PETROL", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, o.ID))
	assert.Empty(t, repo.byID)

	assert.ErrorIs(t, svc.Delete(ctx, o.ID), ErrNotFound)
}
