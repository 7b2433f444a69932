// Package password provides password hashing and verification.
//
// Hashing is deliberately slow (bcrypt, salted, adaptive) to resist brute
// force. Verification never panics: malformed stored hashes verify as false.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used across the portal.
const DefaultCost = 10

// Hasher hashes and verifies plaintext passwords.
type Hasher interface {
	// Hash returns a salted hash of the password. Two calls with the same
	// input produce different hashes.
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. Returns false on
	// malformed hash strings rather than failing.
	Verify(password, hash string) bool
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher with the given cost. Costs outside
// the bcrypt range fall back to DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password: empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
