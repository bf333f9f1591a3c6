// Package credential turns plaintext passwords into stored digests.
package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrHashingFailure is returned when a password cannot be hashed
var ErrHashingFailure = errors.New("password hashing failed")

// Hasher produces a one-way digest of a plaintext password
type Hasher interface {
	Hash(plaintext string) (string, error)
}

// Ensure BcryptHasher implements Hasher
var _ Hasher = BcryptHasher{}

// BcryptHasher hashes with bcrypt at a fixed cost
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when
// cost is zero
func NewBcryptHasher(cost int) BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

// Hash returns the bcrypt digest of plaintext
func (h BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.Cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashingFailure, err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches a digest produced by Hash
func (h BcryptHasher) Verify(digest, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
