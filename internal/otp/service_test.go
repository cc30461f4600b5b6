package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	sent []string
	fail bool
}

func (c *captureSender) Send(_ context.Context, destination, message string) error {
	if c.fail {
		return errors.New("smtp connection refused")
	}
	c.sent = append(c.sent, destination+": "+message)
	return nil
}

func newTestService(t *testing.T) (*Service, *Store, *captureSender) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(client)
	sender := &captureSender{}
	svc := NewService(store, sender, 5*time.Minute)
	return svc, store, sender
}

func issuedCode(t *testing.T, store *Store, email string, purpose Purpose) string {
	t.Helper()
	rec, err := store.Get(context.Background(), email, purpose)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec.Code
}

func TestIssueAndVerify(t *testing.T) {
	svc, store, sender := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "anna@example.com", PurposeLoginVerification))
	require.Len(t, sender.sent, 1)

	code := issuedCode(t, store, "anna@example.com", PurposeLoginVerification)
	ok, err := svc.Verify(ctx, "anna@example.com", code, PurposeLoginVerification)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyWrongCode(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "anna@example.com", PurposeLoginVerification))
	code := issuedCode(t, store, "anna@example.com", PurposeLoginVerification)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err := svc.Verify(ctx, "anna@example.com", wrong, PurposeLoginVerification)
	assert.ErrorIs(t, err, ErrMismatch)

	// The right code still works afterwards.
	ok, err := svc.Verify(ctx, "anna@example.com", code, PurposeLoginVerification)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyWithoutIssuance(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Verify(context.Background(), "anna@example.com", "123456", PurposeLoginVerification)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyExpiredCode(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "anna@example.com", PurposeLoginVerification))
	code := issuedCode(t, store, "anna@example.com", PurposeLoginVerification)

	// Move the clock past the validity window.
	svc.now = func() time.Time { return time.Now().Add(6 * time.Minute) }

	_, err := svc.Verify(ctx, "anna@example.com", code, PurposeLoginVerification)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestReissueInvalidatesPriorCode(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "anna@example.com", PurposeLoginVerification))
	first := issuedCode(t, store, "anna@example.com", PurposeLoginVerification)

	require.NoError(t, svc.Issue(ctx, "anna@example.com", PurposeLoginVerification))
	second := issuedCode(t, store, "anna@example.com", PurposeLoginVerification)

	if first == second {
		t.Skip("generator produced identical consecutive codes")
	}

	_, err := svc.Verify(ctx, "anna@example.com", first, PurposeLoginVerification)
	assert.ErrorIs(t, err, ErrMismatch)

	ok, err := svc.Verify(ctx, "anna@example.com", second, PurposeLoginVerification)
	require.NoError(t, err)
	assert.True(t, ok)
}

// A second verify of the same valid code succeeds again: nothing changes on
// the second call.
func TestReVerifyIsIdempotent(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "anna@example.com", PurposeEmailVerification))
	code := issuedCode(t, store, "anna@example.com", PurposeEmailVerification)

	ok, err := svc.Verify(ctx, "anna@example.com", code, PurposeEmailVerification)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify(ctx, "anna@example.com", code, PurposeEmailVerification)
	require.NoError(t, err)
	assert.True(t, ok)

	rec, err := store.Get(ctx, "anna@example.com", PurposeEmailVerification)
	require.NoError(t, err)
	assert.True(t, rec.Verified)
}

// Expiry wins over the verified flag: a code verified inside the window
// cannot be verified again once the window has passed.
func TestExpiredCodeNotVerifiableEvenIfPreviouslyVerified(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }
	require.NoError(t, svc.Issue(ctx, "anna@example.com", PurposeLoginVerification))
	code := issuedCode(t, store, "anna@example.com", PurposeLoginVerification)

	svc.now = func() time.Time { return issuedAt.Add(4 * time.Minute) }
	ok, err := svc.Verify(ctx, "anna@example.com", code, PurposeLoginVerification)
	require.NoError(t, err)
	assert.True(t, ok)

	svc.now = func() time.Time { return issuedAt.Add(6 * time.Minute) }
	_, err = svc.Verify(ctx, "anna@example.com", code, PurposeLoginVerification)
	assert.ErrorIs(t, err, ErrExpired)
}

// Issue is all-or-nothing: a failed delivery leaves no code behind.
func TestIssueRollsBackOnDeliveryFailure(t *testing.T) {
	svc, store, sender := newTestService(t)
	ctx := context.Background()
	sender.fail = true

	err := svc.Issue(ctx, "anna@example.com", PurposeLoginVerification)
	assert.ErrorIs(t, err, ErrDeliveryFailed)

	rec, err := store.Get(ctx, "anna@example.com", PurposeLoginVerification)
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = svc.Verify(ctx, "anna@example.com", "123456", PurposeLoginVerification)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueRejectsUnknownPurpose(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Issue(context.Background(), "anna@example.com", Purpose("PASSWORD_RESET"))
	assert.ErrorIs(t, err, ErrInvalidPurpose)
}

func TestPurposesDoNotCrossVerify(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "anna@example.com", PurposeEmailVerification))
	code := issuedCode(t, store, "anna@example.com", PurposeEmailVerification)

	_, err := svc.Verify(ctx, "anna@example.com", code, PurposeLoginVerification)
	assert.ErrorIs(t, err, ErrNotFound)
}
