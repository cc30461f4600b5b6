package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	mu      sync.Mutex
	records map[string]*Record
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{records: make(map[string]*Record)}
}

func key(stationID int64, fuelType string) string {
	return fuelType + "@" + decimal.NewFromInt(stationID).String()
}

func (f *fakeRepository) get(stationID int64, fuelType string) *Record {
	rec, ok := f.records[key(stationID, fuelType)]
	if !ok {
		rec = &Record{StationID: stationID, FuelType: fuelType, Amount: decimal.Zero}
		f.records[key(stationID, fuelType)] = rec
	}
	return rec
}

func (f *fakeRepository) SetAmount(_ context.Context, stationID int64, fuelType string, amount decimal.Decimal) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.get(stationID, fuelType)
	rec.Amount = amount
	rec.UpdatedAt = time.Now()
	cp := *rec
	return &cp, nil
}

func (f *fakeRepository) Consume(_ context.Context, stationID int64, fuelType string, amount decimal.Decimal) (*Record, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.get(stationID, fuelType)
	if rec.Amount.LessThan(amount) {
		return nil, false, nil
	}
	rec.Amount = rec.Amount.Sub(amount)
	cp := *rec
	return &cp, true, nil
}

func (f *fakeRepository) Restock(_ context.Context, stationID int64, fuelType string, amount decimal.Decimal) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.get(stationID, fuelType)
	rec.Amount = rec.Amount.Add(amount)
	cp := *rec
	return &cp, nil
}

func (f *fakeRepository) ListByStation(_ context.Context, stationID int64) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Record
	for _, rec := range f.records {
		if rec.StationID == stationID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

type fakeStations struct {
	known map[int64]bool
}

func (f *fakeStations) Exists(_ context.Context, stationID int64) (bool, error) {
	return f.known[stationID], nil
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	svc := NewService(repo, &fakeStations{known: map[int64]bool{1: true, 2: true}})
	return svc, repo
}

func TestSetAmountCreatesRecordOnFirstTouch(t *testing.T) {
	svc, _ := newTestService()

	rec, err := svc.SetAmount(context.Background(), 1, "PETROL", decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.True(t, rec.Amount.Equal(decimal.NewFromInt(500)))
}

func TestSetAmountRejectsNegative(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SetAmount(context.Background(), 1, "PETROL", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestConsumeDeducts(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.SetAmount(context.Background(), 1, "DIESEL", decimal.NewFromInt(100))
	require.NoError(t, err)

	rec, err := svc.Consume(context.Background(), 1, "DIESEL", decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.True(t, rec.Amount.Equal(decimal.NewFromInt(70)))
}

func TestConsumeInsufficientLeavesStockUntouched(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.SetAmount(context.Background(), 1, "DIESEL", decimal.NewFromInt(10))
	require.NoError(t, err)

	_, err = svc.Consume(context.Background(), 1, "DIESEL", decimal.NewFromInt(11))
	assert.ErrorIs(t, err, ErrInsufficientStock)

	records, err := svc.ListByStation(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Amount.Equal(decimal.NewFromInt(10)))
}

// Consuming from a key that was never set treats the stock as zero.
func TestConsumeFromUntouchedKey(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Consume(context.Background(), 1, "KEROSENE", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestRestockAccumulates(t *testing.T) {
	svc, _ := newTestService()

	rec, err := svc.Restock(context.Background(), 2, "PETROL", decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.True(t, rec.Amount.Equal(decimal.NewFromInt(1000)))

	rec, err = svc.Restock(context.Background(), 2, "PETROL", decimal.NewFromInt(250))
	require.NoError(t, err)
	assert.True(t, rec.Amount.Equal(decimal.NewFromInt(1250)))
}

func TestKeysAreIndependent(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SetAmount(context.Background(), 1, "PETROL", decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = svc.SetAmount(context.Background(), 1, "DIESEL", decimal.NewFromInt(200))
	require.NoError(t, err)

	rec, err := svc.Consume(context.Background(), 1, "PETROL", decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.True(t, rec.Amount.Equal(decimal.NewFromInt(60)))

	records, err := svc.ListByStation(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	for _, r := range records {
		if r.FuelType == "DIESEL" {
			assert.True(t, r.Amount.Equal(decimal.NewFromInt(200)))
		}
	}
}

func TestUnknownStationRejected(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SetAmount(context.Background(), 99, "PETROL", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrStationNotFound)

	_, err = svc.Consume(context.Background(), 99, "PETROL", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrStationNotFound)

	_, err = svc.Restock(context.Background(), 99, "PETROL", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrStationNotFound)
}
