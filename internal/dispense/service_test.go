package dispense

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelquota-platform/fuelquota/internal/quota"
)

// fakeQuota mirrors the store's compare-and-set semantics in memory.
type fakeQuota struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
}

func (f *fakeQuota) TryDebit(_ context.Context, vehicleNumber string, amount decimal.Decimal) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bal, ok := f.balances[vehicleNumber]
	if !ok {
		return decimal.Zero, quota.ErrVehicleNotFound
	}
	if bal.LessThan(amount) {
		return decimal.Zero, quota.ErrInsufficientQuota
	}
	f.balances[vehicleNumber] = bal.Sub(amount)
	return f.balances[vehicleNumber], nil
}

type fakeTransactions struct {
	recorded []Transaction
}

func (f *fakeTransactions) Record(_ context.Context, tx *Transaction) error {
	tx.ID = int64(len(f.recorded) + 1)
	f.recorded = append(f.recorded, *tx)
	return nil
}

func (f *fakeTransactions) ListByVehicle(_ context.Context, vehicleID int64, limit int) ([]Transaction, error) {
	var out []Transaction
	for i := len(f.recorded) - 1; i >= 0 && len(out) < limit; i-- {
		if f.recorded[i].VehicleID == vehicleID {
			out = append(out, f.recorded[i])
		}
	}
	return out, nil
}

type smsRecorder struct {
	messages []string
}

func (s *smsRecorder) Send(_ context.Context, destination, message string) error {
	s.messages = append(s.messages, destination+": "+message)
	return nil
}

func qrText(vehicleNumber string) string {
	return "Vehicle Number: " + vehicleNumber + "\nVehicle Type: CAR\nOwner NIC: 981234567V\nWeekly Quota: 20.00 L"
}

func newTestEngine(t *testing.T) (*Service, *fakeQuota, *fakeTransactions, *smsRecorder) {
	lookup := &fakeLookup{
		byNumber: map[string]*quota.Account{
			"BGQ-6375": {
				VehicleID:       1,
				VehicleNumber:   "BGQ-6375",
				ChassisNumber:   "CH-778899",
				FuelType:        "PETROL",
				VehicleTypeName: "CAR",
				WeeklyQuota:     decimal.NewFromInt(20),
				Remaining:       decimal.NewFromInt(20),
				Owner: quota.OwnerSummary{
					ID: 7, NIC: "981234567V", FirstName: "Anna", LastName: "Perera",
					Email: "anna@example.com", Phone: "0771234567",
				},
			},
		},
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	q := &fakeQuota{balances: map[string]decimal.Decimal{"BGQ-6375": decimal.NewFromInt(20)}}
	txs := &fakeTransactions{}
	sms := &smsRecorder{}

	svc := NewService(
		NewTextResolver(lookup),
		q,
		txs,
		NewIdempotencyCache(client, 10*time.Minute),
		sms,
		nil,
	)
	return svc, q, txs, sms
}

// Walk one account down its weekly allowance: 20 -> 12 -> 9 -> 8.
func TestDispenseSequence(t *testing.T) {
	svc, _, txs, sms := newTestEngine(t)
	ctx := context.Background()

	steps := []struct {
		amount    int64
		remaining int64
	}{
		{8, 12},
		{3, 9},
		{1, 8},
	}

	for _, step := range steps {
		rec, err := svc.Dispense(ctx, 5, &Request{
			Credential: qrText("BGQ-6375"),
			Amount:     decimal.NewFromInt(step.amount),
		}, "")
		require.NoError(t, err)
		assert.True(t, rec.Remaining.Equal(decimal.NewFromInt(step.remaining)))
		assert.Equal(t, "BGQ-6375", rec.VehicleNumber)
		assert.Equal(t, "CAR", rec.VehicleTypeName)
	}

	assert.Len(t, txs.recorded, 3)
	assert.Len(t, sms.messages, 3)
	assert.Contains(t, sms.messages[0], "0771234567")
}

func TestDispenseInsufficientQuota(t *testing.T) {
	svc, q, txs, sms := newTestEngine(t)
	ctx := context.Background()

	q.balances["BGQ-6375"] = decimal.NewFromInt(5)

	_, err := svc.Dispense(ctx, 5, &Request{
		Credential: qrText("BGQ-6375"),
		Amount:     decimal.NewFromInt(6),
	}, "")
	assert.ErrorIs(t, err, quota.ErrInsufficientQuota)

	// Nothing downstream happened.
	assert.Empty(t, txs.recorded)
	assert.Empty(t, sms.messages)
	assert.True(t, q.balances["BGQ-6375"].Equal(decimal.NewFromInt(5)))
}

func TestDispenseUnknownCredential(t *testing.T) {
	svc, _, _, _ := newTestEngine(t)

	_, err := svc.Dispense(context.Background(), 5, &Request{
		Credential: qrText("ZZZ-0000"),
		Amount:     decimal.NewFromInt(1),
	}, "")
	assert.ErrorIs(t, err, ErrUnknownCredential)
}

func TestDispenseMalformedCredential(t *testing.T) {
	svc, _, _, _ := newTestEngine(t)

	_, err := svc.Dispense(context.Background(), 5, &Request{
		Credential: "garbage",
		Amount:     decimal.NewFromInt(1),
	}, "")
	assert.ErrorIs(t, err, ErrMalformedCredential)
}

func TestDispenseRejectsNonPositiveAmount(t *testing.T) {
	svc, _, _, _ := newTestEngine(t)

	_, err := svc.Dispense(context.Background(), 5, &Request{
		Credential: qrText("BGQ-6375"),
		Amount:     decimal.Zero,
	}, "")
	assert.ErrorIs(t, err, quota.ErrInvalidAmount)
}

// A retried request with the same idempotency key replays the receipt and
// debits nothing.
func TestDispenseIdempotentRetry(t *testing.T) {
	svc, q, txs, _ := newTestEngine(t)
	ctx := context.Background()

	req := &Request{Credential: qrText("BGQ-6375"), Amount: decimal.NewFromInt(8)}

	first, err := svc.Dispense(ctx, 5, req, "pump-42-attempt-1")
	require.NoError(t, err)
	assert.True(t, first.Remaining.Equal(decimal.NewFromInt(12)))

	second, err := svc.Dispense(ctx, 5, req, "pump-42-attempt-1")
	require.NoError(t, err)
	assert.True(t, second.Remaining.Equal(decimal.NewFromInt(12)))

	// Only the first attempt debited and recorded.
	assert.True(t, q.balances["BGQ-6375"].Equal(decimal.NewFromInt(12)))
	assert.Len(t, txs.recorded, 1)
}

func TestDispenseDistinctKeysDebitSeparately(t *testing.T) {
	svc, q, _, _ := newTestEngine(t)
	ctx := context.Background()

	req := &Request{Credential: qrText("BGQ-6375"), Amount: decimal.NewFromInt(8)}

	_, err := svc.Dispense(ctx, 5, req, "key-a")
	require.NoError(t, err)
	_, err = svc.Dispense(ctx, 5, req, "key-b")
	require.NoError(t, err)

	assert.True(t, q.balances["BGQ-6375"].Equal(decimal.NewFromInt(4)))
}

func TestDispenseWithoutKeyNeverReplays(t *testing.T) {
	svc, q, _, _ := newTestEngine(t)
	ctx := context.Background()

	req := &Request{Credential: qrText("BGQ-6375"), Amount: decimal.NewFromInt(8)}

	_, err := svc.Dispense(ctx, 5, req, "")
	require.NoError(t, err)
	_, err = svc.Dispense(ctx, 5, req, "")
	require.NoError(t, err)

	assert.True(t, q.balances["BGQ-6375"].Equal(decimal.NewFromInt(4)))
}

func TestHistoryReturnsNewestFirst(t *testing.T) {
	svc, _, _, _ := newTestEngine(t)
	ctx := context.Background()

	for _, amount := range []int64{8, 3, 1} {
		_, err := svc.Dispense(ctx, 5, &Request{
			Credential: qrText("BGQ-6375"),
			Amount:     decimal.NewFromInt(amount),
		}, "")
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Amount.Equal(decimal.NewFromInt(1)))
	assert.True(t, history[1].Amount.Equal(decimal.NewFromInt(3)))
}
