package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialStore hashes and verifies secrets (passwords and recovery
// answers) with bcrypt. It never sees ciphertext; callers decrypt first.
type CredentialStore struct {
	cost int
}

func NewCredentialStore(cost int) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialStore{cost: cost}
}

func (s *CredentialStore) Hash(secret []byte) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(secret, s.cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(digest), nil
}

func (s *CredentialStore) Verify(secret []byte, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), secret) == nil
}
