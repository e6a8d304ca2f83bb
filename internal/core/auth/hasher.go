package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"go-gin-taskhub/internal/domain"
)

// PasswordHasher is the one-way credential store. Implementations keep no state.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports a mismatch as (false, nil); malformed digests return an error.
	Verify(password, hash string) (bool, error)
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", domain.Validation("password is required")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.Validation("password must be at most 72 bytes")
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
