package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/falconusers/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt. Each hash embeds its
// own random salt and cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost, or bcrypt.DefaultCost when cost
// is outside bcrypt's accepted range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of plaintext. Passwords longer than 72 bytes
// are rejected with common.ErrValidation; any other failure is reported as
// common.ErrHashing.
func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password is longer than 72 bytes", common.ErrValidation)
		}
		return "", fmt.Errorf("%w: %w", common.ErrHashing, err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches hash. Malformed hashes simply
// don't match.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
