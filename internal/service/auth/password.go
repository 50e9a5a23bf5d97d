package service_auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) ([]byte, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hashed, nil
}

func CheckPassword(password string, hashed []byte) bool {
	return bcrypt.CompareHashAndPassword(hashed, []byte(password)) == nil
}
