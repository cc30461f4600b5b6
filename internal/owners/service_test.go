package owners

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelquota-platform/fuelquota/internal/auth"
	"github.com/fuelquota-platform/fuelquota/internal/otp"
)

type fakeRepository struct {
	byID   map[int64]*Owner
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: make(map[int64]*Owner)}
}

func (f *fakeRepository) Create(_ context.Context, o *Owner) error {
	f.nextID++
	o.ID = f.nextID
	cp := *o
	f.byID[o.ID] = &cp
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeRepository) GetByEmail(_ context.Context, email string) (*Owner, error) {
	for _, o := range f.byID {
		if o.Email == email {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) GetByNIC(_ context.Context, nic string) (*Owner, error) {
	for _, o := range f.byID {
		if o.NIC == nic {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	o, _ := f.GetByEmail(ctx, email)
	return o != nil, nil
}

func (f *fakeRepository) ExistsByNIC(ctx context.Context, nic string) (bool, error) {
	o, _ := f.GetByNIC(ctx, nic)
	return o != nil, nil
}

func (f *fakeRepository) SetEmailVerified(_ context.Context, email string) error {
	for _, o := range f.byID {
		if o.Email == email {
			o.EmailVerified = true
		}
	}
	return nil
}

func (f *fakeRepository) SetQRIdentifier(_ context.Context, id int64, identifier string) error {
	if o, ok := f.byID[id]; ok {
		o.QRIdentifier = identifier
	}
	return nil
}

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

func newTestService(t *testing.T) (*Service, *fakeRepository, *otp.Store, *captureSender) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := otp.NewStore(client)
	sender := &captureSender{}
	otpSvc := otp.NewService(store, sender, 5*time.Minute)

	jwt := auth.NewJWTManager("access-secret-32-chars-long!!!!!", "refresh-secret-32-chars-long!!!!", 15*time.Minute, 7*24*time.Hour)

	repo := newFakeRepository()
	return NewService(repo, otpSvc, jwt), repo, store, sender
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		NIC:       "981234567V",
		FirstName: "Anna",
		LastName:  "Perera",
		Email:     "anna@example.com",
		Phone:     "0771234567",
		Address:   "12 Galle Road, Colombo",
	}
}

func issuedCode(t *testing.T, store *otp.Store, email string, purpose otp.Purpose) string {
	rec, err := store.Get(context.Background(), email, purpose)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec.Code
}

func TestRegisterSendsVerificationCode(t *testing.T) {
	svc, repo, store, sender := newTestService(t)
	ctx := context.Background()

	o, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.NotZero(t, o.ID)
	assert.False(t, o.EmailVerified)
	assert.Contains(t, repo.byID, o.ID)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "anna@example.com")
	assert.NotEmpty(t, issuedCode(t, store, o.Email, otp.PurposeEmailVerification))
}

// When the verification email cannot go out, the owner row is removed again so
// the failed registration leaves nothing behind.
func TestRegisterRollsBackOnDeliveryFailure(t *testing.T) {
	svc, repo, store, sender := newTestService(t)
	sender.fail = true
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	assert.ErrorIs(t, err, otp.ErrDeliveryFailed)
	assert.Empty(t, repo.byID)

	rec, err := store.Get(ctx, "anna@example.com", otp.PurposeEmailVerification)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.NIC = "870000000V"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterDuplicateNIC(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.Email = "other@example.com"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrDuplicateNIC)
}

func TestVerifyEmailMarksOwnerVerified(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	code := issuedCode(t, store, o.Email, otp.PurposeEmailVerification)
	require.NoError(t, svc.VerifyEmail(ctx, o.Email, code))

	got, err := svc.GetByEmail(ctx, o.Email)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)
}

func TestVerifyEmailWrongCode(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	err = svc.VerifyEmail(ctx, o.Email, "000000")
	assert.ErrorIs(t, err, otp.ErrMismatch)
}

func registeredVerifiedOwner(t *testing.T, svc *Service, store *otp.Store) *Owner {
	ctx := context.Background()
	o, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	code := issuedCode(t, store, o.Email, otp.PurposeEmailVerification)
	require.NoError(t, svc.VerifyEmail(ctx, o.Email, code))
	return o
}

func TestLoginFlow(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	ctx := context.Background()

	o := registeredVerifiedOwner(t, svc, store)

	require.NoError(t, svc.RequestLoginCode(ctx, o.Email))
	code := issuedCode(t, store, o.Email, otp.PurposeLoginVerification)

	got, pair, err := svc.Login(ctx, o.Email, code)
	require.NoError(t, err)
	assert.Equal(t, o.Email, got.Email)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	err = svc.RequestLoginCode(ctx, "anna@example.com")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.RequestLoginCode(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueQRIdentifier(t *testing.T) {
	svc, repo, store, _ := newTestService(t)
	ctx := context.Background()

	o := registeredVerifiedOwner(t, svc, store)

	require.NoError(t, svc.RequestQRCode(ctx, o.Email))
	code := issuedCode(t, store, o.Email, otp.PurposeQRCodeGeneration)

	payload, err := svc.IssueQRIdentifier(ctx, o.Email, code)
	require.NoError(t, err)

	stored := repo.byID[o.ID].QRIdentifier
	require.NotEmpty(t, stored)
	_, err = uuid.Parse(stored)
	assert.NoError(t, err)
	assert.Equal(t, "FUELQUOTA:"+stored+":"+o.NIC, payload)
}

func TestIssueQRIdentifierWithoutCode(t *testing.T) {
	svc, _, store, _ := newTestService(t)

	o := registeredVerifiedOwner(t, svc, store)

	_, err := svc.IssueQRIdentifier(context.Background(), o.Email, "123456")
	assert.ErrorIs(t, err, otp.ErrNotFound)
}
