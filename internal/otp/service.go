package otp

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/fuelquota-platform/fuelquota/internal/metrics"
	"github.com/fuelquota-platform/fuelquota/internal/notify"
)

// Service issues and verifies short-lived one-time codes. Issuance is
// all-or-nothing: the code is persisted first, then handed to the delivery
// collaborator synchronously, and rolled back if delivery fails so no orphan
// code is left behind.
type Service struct {
	store  *Store
	sender notify.Sender
	ttl    time.Duration
	now    func() time.Time
}

func NewService(store *Store, sender notify.Sender, ttl time.Duration) *Service {
	return &Service{
		store:  store,
		sender: sender,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue generates a fresh 6-digit code for the (email, purpose) pair,
// replacing any prior code, and delivers it. A delivery failure rolls the
// issuance back and surfaces as ErrDeliveryFailed.
func (s *Service) Issue(ctx context.Context, email string, purpose Purpose) error {
	if !purpose.Valid() {
		return ErrInvalidPurpose
	}

	code, err := GenerateCode()
	if err != nil {
		return err
	}

	rec := &Record{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: s.now().Add(s.ttl),
		Verified:  false,
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return err
	}

	msg := fmt.Sprintf("Your fuel quota verification code is %s. It expires in %d minutes.",
		code, int(s.ttl.Minutes()))
	if err := s.sender.Send(ctx, email, msg); err != nil {
		// Roll back so no undeliverable code lingers.
		if delErr := s.store.Delete(ctx, email, purpose); delErr != nil {
			slog.Error("rolling back otp issuance failed", "email", email, "purpose", purpose, "error", delErr)
		}
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	metrics.OTPIssuedTotal.WithLabelValues(string(purpose)).Inc()
	slog.Info("verification code issued", "email", email, "purpose", purpose)
	return nil
}

// Verify checks the supplied code against the stored record. On a match the
// record is marked verified. Re-verifying an already-verified, unexpired
// code succeeds again: a double submit changes no state, so it is treated as
// idempotent rather than an error.
func (s *Service) Verify(ctx context.Context, email, code string, purpose Purpose) (bool, error) {
	if !purpose.Valid() {
		return false, ErrInvalidPurpose
	}

	rec, err := s.store.Get(ctx, email, purpose)
	if err != nil {
		return false, err
	}
	if rec == nil {
		metrics.OTPVerifiedTotal.WithLabelValues("not_found").Inc()
		return false, ErrNotFound
	}

	if s.now().After(rec.ExpiresAt) {
		metrics.OTPVerifiedTotal.WithLabelValues("expired").Inc()
		return false, ErrExpired
	}

	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		metrics.OTPVerifiedTotal.WithLabelValues("mismatch").Inc()
		return false, ErrMismatch
	}

	if !rec.Verified {
		rec.Verified = true
		if err := s.store.Put(ctx, rec); err != nil {
			return false, err
		}
	}

	metrics.OTPVerifiedTotal.WithLabelValues("ok").Inc()
	return true, nil
}
