package auth

import "golang.org/x/crypto/bcrypt"

// Cost 12 matches the strength the existing station and admin credential
// hashes were generated with.
const bcryptCost = 12

// HashPassword hashes a station or admin password for storage.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ComparePassword checks a plaintext password against its stored hash.
func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
