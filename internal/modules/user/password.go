package user

import (
	"golang.org/x/crypto/bcrypt"
)

// hashPassword uses bcrypt to generate a hash from a plaintext password.
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// checkPasswordHash compares a plaintext password with a bcrypt hash.
// A malformed hash simply fails verification.
func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
