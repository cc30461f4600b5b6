package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Purpose scopes a verification code to one flow; codes for different
// purposes never interfere.
type Purpose string

const (
	PurposeEmailVerification Purpose = "EMAIL_VERIFICATION"
	PurposeLoginVerification Purpose = "LOGIN_VERIFICATION"
	PurposeQRCodeGeneration  Purpose = "QR_CODE_GENERATION"
)

// Valid reports whether p is one of the known purposes.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeEmailVerification, PurposeLoginVerification, PurposeQRCodeGeneration:
		return true
	}
	return false
}

// Record is one issued verification code. At most one record exists per
// (email, purpose) pair; issuing replaces any prior record.
type Record struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	Purpose   Purpose   `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
}

// GenerateCode returns a uniformly random 6-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generating otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
