package utils

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultBcryptCost = 10
	// MaxPasswordBytes is the longest input bcrypt looks at.
	MaxPasswordBytes = 72
)

var ErrPasswordMismatch = errors.New("password does not match")

// PasswordHasher runs bcrypt with a bound on how many hashes are computed at
// once, so a burst of signups cannot starve the rest of the process.
type PasswordHasher struct {
	cost int
	sem  *semaphore.Weighted
}

func NewPasswordHasher(cost int, concurrency int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	return &PasswordHasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(concurrency)),
	}
}

func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Compare checks password against hash. Inputs longer than MaxPasswordBytes
// never match, since bcrypt would only compare their prefix.
func (h *PasswordHasher) Compare(ctx context.Context, hash string, password string) error {
	if len(password) > MaxPasswordBytes {
		return ErrPasswordMismatch
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.sem.Release(1)

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}

	return nil
}
