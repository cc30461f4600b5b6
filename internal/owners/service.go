package owners

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/fuelquota-platform/fuelquota/internal/auth"
	"github.com/fuelquota-platform/fuelquota/internal/otp"
)

// Service runs the owner lifecycle: registration with a must-succeed
// verification email, OTP-based email verification and login, and QR
// identifier issuance gated on a fresh code.
type Service struct {
	repo Repository
	otp  *otp.Service
	jwt  *auth.JWTManager
}

func NewService(repo Repository, otpSvc *otp.Service, jwt *auth.JWTManager) *Service {
	return &Service{repo: repo, otp: otpSvc, jwt: jwt}
}

// Register creates the owner and sends the email-verification code. The two
// stand or fall together: if the code cannot be delivered the owner row is
// removed again, so a failed registration leaves nothing behind.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Owner, error) {
	if exists, err := s.repo.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateEmail
	}
	if exists, err := s.repo.ExistsByNIC(ctx, req.NIC); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateNIC
	}

	now := time.Now()
	o := &Owner{
		NIC:       req.NIC,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	if err := s.otp.Issue(ctx, o.Email, otp.PurposeEmailVerification); err != nil {
		if delErr := s.repo.Delete(ctx, o.ID); delErr != nil {
			slog.Error("rolling back owner registration failed", "owner_id", o.ID, "error", delErr)
		}
		return nil, err
	}

	slog.Info("owner registered", "owner_id", o.ID, "email", o.Email)
	return o, nil
}

// VerifyEmail confirms the email-verification code and marks the owner
// verified.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) error {
	if _, err := s.otp.Verify(ctx, email, code, otp.PurposeEmailVerification); err != nil {
		return err
	}
	if err := s.repo.SetEmailVerified(ctx, email); err != nil {
		return err
	}
	slog.Info("owner email verified", "email", email)
	return nil
}

// RequestLoginCode sends a login code to a registered, verified owner.
func (s *Service) RequestLoginCode(ctx context.Context, email string) error {
	o, err := s.verifiedOwner(ctx, email)
	if err != nil {
		return err
	}
	return s.otp.Issue(ctx, o.Email, otp.PurposeLoginVerification)
}

// Login exchanges a valid login code for a token pair.
func (s *Service) Login(ctx context.Context, email, code string) (*Owner, *auth.TokenPair, error) {
	o, err := s.verifiedOwner(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.otp.Verify(ctx, email, code, otp.PurposeLoginVerification); err != nil {
		return nil, nil, err
	}

	pair, _, err := s.jwt.GenerateTokenPair(strconv.FormatInt(o.ID, 10), o.Email, auth.RoleOwner)
	if err != nil {
		return nil, nil, fmt.Errorf("issuing owner tokens: %w", err)
	}
	return o, pair, nil
}

// RequestQRCode sends the code that authorizes QR identifier issuance.
func (s *Service) RequestQRCode(ctx context.Context, email string) error {
	o, err := s.verifiedOwner(ctx, email)
	if err != nil {
		return err
	}
	return s.otp.Issue(ctx, o.Email, otp.PurposeQRCodeGeneration)
}

// IssueQRIdentifier verifies the QR generation code, assigns the owner a
// fresh opaque identifier, and returns the QR payload embedding it.
func (s *Service) IssueQRIdentifier(ctx context.Context, email, code string) (string, error) {
	o, err := s.verifiedOwner(ctx, email)
	if err != nil {
		return "", err
	}
	if _, err := s.otp.Verify(ctx, email, code, otp.PurposeQRCodeGeneration); err != nil {
		return "", err
	}

	identifier := uuid.New().String()
	if err := s.repo.SetQRIdentifier(ctx, o.ID, identifier); err != nil {
		return "", err
	}

	slog.Info("owner qr identifier issued", "owner_id", o.ID)
	return fmt.Sprintf("FUELQUOTA:%s:%s", identifier, o.NIC), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Owner, error) {
	o, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNotFound
	}
	return o, nil
}

// GetByNIC is the lookup the vehicle registration flow uses to attach a
// vehicle to its owner.
func (s *Service) GetByNIC(ctx context.Context, nic string) (*Owner, error) {
	o, err := s.repo.GetByNIC(ctx, nic)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *Service) verifiedOwner(ctx context.Context, email string) (*Owner, error) {
	o, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNotFound
	}
	if !o.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	return o, nil
}
