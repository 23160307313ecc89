// Package credential stores and checks password hashes on users.
package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"studyboard/internal/model"
)

var (
	ErrEmptyPassword   = errors.New("password must not be empty")
	ErrPasswordTooLong = errors.New("password is too long (max 72 bytes)")
)

type Hasher struct {
	cost int
}

// NewHasher returns a bcrypt hasher. Out-of-range costs fall back to
// bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Set hashes plaintext and stores the result on user. The salt and cost are
// embedded in the hash string.
func (h *Hasher) Set(user *model.User, plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return ErrPasswordTooLong
	}
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}
	user.PasswordHash = string(hash)
	return nil
}

// Verify reports whether plaintext matches the stored hash. It never fails
// loudly: a missing hash or empty input is simply a mismatch.
func (h *Hasher) Verify(user *model.User, plaintext string) bool {
	if user == nil || user.PasswordHash == "" || plaintext == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plaintext)) == nil
}
