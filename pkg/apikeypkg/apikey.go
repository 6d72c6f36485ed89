// Package apikeypkg provides hashing and verification of static API keys.
//
// Keys are issued and stored by an external collaborator; the service only
// carries a bcrypt hash of the active key in its configuration.
package apikeypkg

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash returns the bcrypt hash of the given API key.
func Hash(key string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}

	return string(hashed), nil
}

// Check verifies that the given API key matches the configured hash.
func Check(key, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
}
